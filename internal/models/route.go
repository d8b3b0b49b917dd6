package models

// RoutePoint - точка геометрии маршрута
type RoutePoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Route - маршрут, полученный от провайдера маршрутизации и оцененный по безопасности.
// После создания не изменяется.
type Route struct {
	ID              string       `json:"id"`
	Points          []RoutePoint `json:"points"`
	LengthMeters    float64      `json:"lengthMeters"`
	DurationSeconds float64      `json:"durationSeconds"`
	SafetyScore     float64      `json:"safetyScore"`
	Color           string       `json:"color"`
	Label           string       `json:"label"`
}

// TravelMode - способ передвижения пользователя
type TravelMode string

const (
	TravelModeWalking TravelMode = "walking"
	TravelModeBike    TravelMode = "bike"
	TravelModeCar     TravelMode = "car"
	TravelModeTransit TravelMode = "transit"
)

// RankedRoutes - результат ранжирования альтернативных маршрутов
type RankedRoutes struct {
	Routes      []Route `json:"routes"`
	BestRouteID string  `json:"bestRouteId"`
}

// Best возвращает выбранный маршрут
func (r *RankedRoutes) Best() (Route, bool) {
	for _, route := range r.Routes {
		if route.ID == r.BestRouteID {
			return route, true
		}
	}
	return Route{}, false
}

// RoutePlan - оцененные маршруты и тайлы для офлайн-кеша вдоль лучшего маршрута
type RoutePlan struct {
	Ranked       *RankedRoutes `json:"ranked"`
	TilesToCache []string      `json:"tilesToCache"`
}
