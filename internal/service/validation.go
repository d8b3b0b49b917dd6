package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shenikar/safe_walk_system/internal/models"
)

// newValidator возвращает валидатор, который называет поля по их json-именам
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationReason превращает ошибку валидации в короткую причину отказа
func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
	}
	return strings.Join(parts, "; ")
}

// DedupKey - ключ дедупликации записи: clientId, тип и нормализованное содержимое
func DedupKey(clientID string, entryType models.SyncEntryType, payload any) (string, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload for dedup key: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(clientID))
	h.Write([]byte{'|'})
	h.Write([]byte(entryType))
	h.Write([]byte{'|'})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil)), nil
}
