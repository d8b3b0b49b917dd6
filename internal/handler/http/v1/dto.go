package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_walk_system/internal/models"
)

// ReportIncidentRequest DTO для сообщения об опасности
// @Description DTO для сообщения об опасности
type ReportIncidentRequest struct {
	ReporterID  string   `json:"reporterId,omitempty"`
	Type        string   `json:"type" validate:"required,max=64"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	Latitude    *float64 `json:"lat" validate:"required,latitude"`
	Longitude   *float64 `json:"lon" validate:"required,longitude"`
}

// ReportIncidentResponse DTO ответа на сообщение об опасности
// @Description DTO ответа на сообщение об опасности
type ReportIncidentResponse struct {
	IncidentID uuid.UUID `json:"incidentId"`
	Status     string    `json:"status"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          uuid.UUID `json:"id"`
	ReporterID  string    `json:"reporterId"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lon"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NearbyZoneResponse DTO зоны рядом с точкой
type NearbyZoneResponse struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	ZoneScore float64 `json:"zoneScore"`
	Band      string  `json:"band"`
}

// NearbyResponse DTO ответа на запрос инцидентов и зон рядом
// @Description Инциденты из бд и зоны набора данных в радиусе
type NearbyResponse struct {
	Incidents []*IncidentResponse   `json:"incidents"`
	Zones     []*NearbyZoneResponse `json:"zones"`
}

// SyncBatchRequest DTO пакета записей офлайн-очереди
// @Description DTO пакета записей офлайн-очереди
type SyncBatchRequest struct {
	Entries []models.SyncEntry `json:"entries" validate:"max=500"`
}

// TriggerSOSRequest DTO для срабатывания SOS
// @Description DTO для срабатывания SOS
type TriggerSOSRequest struct {
	UserID    string   `json:"userId" validate:"required"`
	Latitude  *float64 `json:"lat" validate:"required,latitude"`
	Longitude *float64 `json:"lon" validate:"required,longitude"`
	Reason    string   `json:"reason,omitempty" validate:"max=500"`
}

// TriggerSOSResponse DTO ответа на срабатывание SOS
type TriggerSOSResponse struct {
	Status string    `json:"status"`
	SOSID  uuid.UUID `json:"sosId"`
}

// SOSAlertResponse DTO активной тревоги
// @Description DTO активной тревоги
type SOSAlertResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Reason    string    `json:"reason,omitempty"`
	MapsURL   string    `json:"mapsUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// HeatmapZoneResponse DTO зоны тепловой карты
type HeatmapZoneResponse struct {
	ID          string  `json:"id"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	Lighting    float64 `json:"lighting"`
	CCTVCount   float64 `json:"cctvCount"`
	CrimeIndex  float64 `json:"crimeIndex"`
	SafetyScore float64 `json:"safetyScore"`
}

// HeatmapResponse DTO тепловой карты
// @Description Все зоны набора данных с оценкой безопасности
type HeatmapResponse struct {
	Zones []*HeatmapZoneResponse `json:"zones"`
}

// PointRequest DTO точки маршрута
type PointRequest struct {
	Latitude  *float64 `json:"lat" validate:"required,latitude"`
	Longitude *float64 `json:"lon" validate:"required,longitude"`
}

// SafeRoutesRequest DTO для поиска безопасных маршрутов
// @Description DTO для поиска безопасных маршрутов
type SafeRoutesRequest struct {
	Start          PointRequest `json:"start"`
	End            PointRequest `json:"end"`
	Mode           string       `json:"mode,omitempty" validate:"omitempty,oneof=walking bike car transit"`
	MinSafetyScore *float64     `json:"minSafetyScore,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// RouteResponse DTO оцененного маршрута
type RouteResponse struct {
	ID              string              `json:"id"`
	Label           string              `json:"label"`
	Color           string              `json:"color"`
	LengthMeters    float64             `json:"lengthMeters"`
	DurationSeconds float64             `json:"durationSeconds"`
	SafetyScore     float64             `json:"safetyScore"`
	Band            string              `json:"band"`
	BelowThreshold  bool                `json:"belowThreshold"`
	Points          []models.RoutePoint `json:"points"`
	EncodedPolyline string              `json:"encodedPolyline"`
}

// SafeRoutesResponse DTO ответа с ранжированными маршрутами
// @Description Ранжированные маршруты и тайлы для офлайн-кеша
type SafeRoutesResponse struct {
	BestRouteID  string           `json:"bestRouteId"`
	Routes       []*RouteResponse `json:"routes"`
	TilesToCache []string         `json:"tilesToCache"`
}
