package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shenikar/safe_walk_system/internal/models"
)

// LoadContacts читает кешированный список контактов профиля.
// Отсутствующий файл означает пустой список.
func LoadContacts(path string) ([]models.Contact, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("agent: failed to read contacts: %w", err)
	}

	var contacts []models.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("agent: failed to decode contacts: %w", err)
	}
	return contacts, nil
}
