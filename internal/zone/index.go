package zone

import (
	"math"

	"github.com/shenikar/safe_walk_system/internal/models"
)

const earthRadiusMeters = 6371000

// Index - неизменяемый набор зон, загружаемый один раз и разделяемый между запросами
// только для чтения. Блокировки не нужны.
type Index struct {
	zones []models.Zone
}

// NewIndex создает индекс по копии переданных зон
func NewIndex(zones []models.Zone) *Index {
	copied := make([]models.Zone, len(zones))
	copy(copied, zones)
	return &Index{zones: copied}
}

// Nearest возвращает ближайшую зону по евклидову расстоянию в координатах lat/lon.
// При равенстве выигрывает первая встреченная зона.
func (i *Index) Nearest(p models.RoutePoint) (models.Zone, bool) {
	if i == nil || len(i.zones) == 0 {
		return models.Zone{}, false
	}

	best := 0
	minDist := math.Inf(1)
	for idx, z := range i.zones {
		dLat := p.Latitude - z.Latitude
		dLon := p.Longitude - z.Longitude
		dist := math.Sqrt(dLat*dLat + dLon*dLon)
		if dist < minDist {
			minDist = dist
			best = idx
		}
	}
	return i.zones[best], true
}

// Within возвращает зоны в радиусе radiusMeters от центра (по формуле гаверсинусов)
func (i *Index) Within(center models.RoutePoint, radiusMeters float64) []models.Zone {
	out := make([]models.Zone, 0)
	if i == nil {
		return out
	}
	for _, z := range i.zones {
		if DistanceMeters(center, models.RoutePoint{Latitude: z.Latitude, Longitude: z.Longitude}) <= radiusMeters {
			out = append(out, z)
		}
	}
	return out
}

// Zones возвращает копию всех зон в исходном порядке
func (i *Index) Zones() []models.Zone {
	if i == nil {
		return nil
	}
	out := make([]models.Zone, len(i.zones))
	copy(out, i.zones)
	return out
}

// Len - количество зон
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.zones)
}

// DistanceMeters вычисляет расстояние между двумя точками в метрах (формула гаверсинусов)
func DistanceMeters(a, b models.RoutePoint) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	deltaPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}
