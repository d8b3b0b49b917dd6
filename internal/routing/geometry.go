package routing

import (
	"fmt"
	"math"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/twpayne/go-polyline"
)

// TileZoom - уровень масштаба тайлов для офлайн-кэша
const TileZoom = 16

// EncodePolyline кодирует геометрию маршрута в формат Encoded Polyline
func EncodePolyline(points []models.RoutePoint) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline восстанавливает точки из Encoded Polyline
func DecodePolyline(encoded string) ([]models.RoutePoint, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	points := make([]models.RoutePoint, len(coords))
	for i, c := range coords {
		points[i] = models.RoutePoint{Latitude: c[0], Longitude: c[1]}
	}
	return points, nil
}

// TilesAlong возвращает уникальные тайлы z/x/y вдоль маршрута в порядке следования
func TilesAlong(points []models.RoutePoint, zoom int) []string {
	seen := make(map[string]struct{})
	tiles := make([]string, 0)
	for _, p := range points {
		x, y := tileXY(p, zoom)
		key := fmt.Sprintf("%d/%d/%d", zoom, x, y)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tiles = append(tiles, key)
	}
	return tiles
}

// tileXY - номер тайла в схеме slippy map (Web Mercator)
func tileXY(p models.RoutePoint, zoom int) (int, int) {
	n := math.Exp2(float64(zoom))
	lat := math.Max(-85.05112878, math.Min(85.05112878, p.Latitude))
	latRad := lat * math.Pi / 180

	x := int(math.Floor((p.Longitude + 180) / 360 * n))
	y := int(math.Floor((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n))

	maxIndex := int(n) - 1
	return clampInt(x, 0, maxIndex), clampInt(y, 0, maxIndex)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
