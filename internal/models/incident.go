package models

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousReporter используется, когда автор сообщения не указан
const AnonymousReporter = "anonymous"

// Incident - сообщение пользователя об опасности. После приема бэкендом
// изменяется только флаг Verified.
type Incident struct {
	ID          uuid.UUID `json:"id"`
	ReporterID  string    `json:"reporter_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Verified    bool      `json:"verified"`
	ClientID    string    `json:"client_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SOSAlert - запись о срабатывании SOS на стороне сервера
type SOSAlert struct {
	ID         uuid.UUID  `json:"id"`
	UserID     string     `json:"user_id"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Reason     string     `json:"reason"`
	Resolved   bool       `json:"resolved"`
	ClientID   string     `json:"client_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// SOSEvent - событие "sos-alert" для живого канала
type SOSEvent struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Reason    string    `json:"reason"`
	Time      time.Time `json:"time"`
}
