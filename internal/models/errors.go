package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnresolvable - у записи зоны нет пригодных координат
	ErrDataUnresolvable = errors.New("zone record has no resolvable coordinates")
	// ErrRouteUnavailable - провайдер маршрутов не вернул ни одного маршрута
	ErrRouteUnavailable = errors.New("route unavailable")
	// ErrSyncDuplicate - сервер уже принял запись с таким ключом
	ErrSyncDuplicate = errors.New("sync entry already accepted")
	// ErrNetworkUnavailable - попытка сетевого вызова без подключения
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrInvalidTransition - недопустимый переход машины состояний SOS
	ErrInvalidTransition = errors.New("invalid sos state transition")
	// ErrNotFound - запись не найдена
	ErrNotFound = errors.New("not found")
)

// SyncPartialFailure - часть записей пакета отклонена сервером
type SyncPartialFailure struct {
	Rejected []RejectedEntry
}

func (e *SyncPartialFailure) Error() string {
	return fmt.Sprintf("sync partially failed: %d entries rejected", len(e.Rejected))
}
