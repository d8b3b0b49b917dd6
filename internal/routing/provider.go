package routing

//go:generate mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks

import (
	"context"

	"github.com/shenikar/safe_walk_system/internal/models"
)

// Request - запрос маршрутов между двумя точками
type Request struct {
	Start models.RoutePoint
	End   models.RoutePoint
	Mode  models.TravelMode
}

// Provider - внешний провайдер маршрутов. Возвращает основной маршрут и альтернативы
// в порядке провайдера.
type Provider interface {
	Routes(ctx context.Context, req Request) ([]models.Route, error)
}

// ProviderTravelMode сопоставляет способ передвижения с режимом провайдера
func ProviderTravelMode(mode models.TravelMode) string {
	switch mode {
	case models.TravelModeBike:
		return "bicycle"
	case models.TravelModeCar:
		return "car"
	case models.TravelModeTransit:
		return "bus"
	}
	return "pedestrian"
}
