package models

import (
	"encoding/json"
	"time"
)

// SyncEntryType - тип полезной нагрузки в очереди синхронизации
type SyncEntryType string

const (
	SyncEntryIncident SyncEntryType = "incident"
	SyncEntrySOS      SyncEntryType = "sos"
)

// SyncEntry - запись офлайн-очереди: инцидент или SOS с локально сгенерированным ключом
type SyncEntry struct {
	ClientID  string          `json:"clientId"`
	Type      SyncEntryType   `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	Attempts  int             `json:"attempts"`
}

// IncidentPayload - данные инцидента внутри SyncEntry
type IncidentPayload struct {
	ReporterID  string   `json:"reporterId"`
	Type        string   `json:"type" validate:"required,max=64"`
	Description string   `json:"description" validate:"max=2000"`
	Latitude    *float64 `json:"lat" validate:"required,latitude"`
	Longitude   *float64 `json:"lon" validate:"required,longitude"`
}

// SOSPayload - данные SOS внутри SyncEntry
type SOSPayload struct {
	UserID    string   `json:"userId" validate:"required"`
	Latitude  *float64 `json:"lat" validate:"required,latitude"`
	Longitude *float64 `json:"lon" validate:"required,longitude"`
	Reason    string   `json:"reason" validate:"max=500"`
}

// RejectedEntry - запись, отклоненная сервером
type RejectedEntry struct {
	ClientID string `json:"clientId"`
	Reason   string `json:"reason"`
}

// SyncResult - ответ сервера на пакетную синхронизацию
type SyncResult struct {
	AcceptedCount  int             `json:"acceptedCount"`
	DuplicateCount int             `json:"duplicateCount"`
	Rejected       []RejectedEntry `json:"rejected"`
}
