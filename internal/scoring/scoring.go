package scoring

import (
	"math"

	"github.com/shenikar/safe_walk_system/internal/models"
)

const (
	baseScore = 50.0
	minScore  = 0.0
	maxScore  = 100.0

	shortRouteMeters  = 2000.0
	mediumRouteMeters = 5000.0
)

// Полосы безопасности для отображения
const (
	BandSafe     = "safe"
	BandModerate = "moderate"
	BandUnsafe   = "unsafe"
)

// ZoneLocator находит ближайшую зону к точке маршрута
type ZoneLocator interface {
	Nearest(p models.RoutePoint) (models.Zone, bool)
}

// ZoneScore вычисляет оценку безопасности зоны в диапазоне [0, 100].
// Линейная детерминированная формула без состояния.
func ZoneScore(z models.Zone) float64 {
	score := baseScore
	score += z.Lighting * 2

	switch {
	case z.CCTVCount > 10:
		score += 10
	case z.CCTVCount > 5:
		score += 5
	}

	score -= z.CrimeIndex * 20
	score += z.CrowdDensity * 5

	if z.PoliceDistance < 0.5 {
		score += 5
	}
	if z.HospitalDistance < 1 {
		score += 3
	}
	return clamp(score)
}

// Band возвращает полосу безопасности для оценки
func Band(score float64) string {
	switch {
	case score >= 80:
		return BandSafe
	case score >= 60:
		return BandModerate
	}
	return BandUnsafe
}

// Engine оценивает маршруты относительно неизменяемого набора зон
type Engine struct {
	locator      ZoneLocator
	samplePoints int
}

// Option настраивает Engine
type Option func(*Engine)

// WithSamplePoints включает усреднение по n равномерно распределенным точкам маршрута.
// n <= 1 оставляет оценку только по середине маршрута.
func WithSamplePoints(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.samplePoints = n
	}
}

// NewEngine создает движок оценки. По умолчанию маршрут оценивается по средней точке.
func NewEngine(locator ZoneLocator, opts ...Option) *Engine {
	e := &Engine{
		locator:      locator,
		samplePoints: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RouteScore вычисляет оценку маршрута: база + бонус за длину, смешанные с оценкой
// зон в точках выборки.
func (e *Engine) RouteScore(route models.Route) float64 {
	base := baseScore + lengthBonus(route.LengthMeters)
	if len(route.Points) == 0 || e.locator == nil {
		return clamp(base)
	}

	var (
		sum   float64
		count int
	)
	for _, idx := range sampleIndices(len(route.Points), e.samplePoints) {
		z, ok := e.locator.Nearest(route.Points[idx])
		if !ok {
			continue
		}
		sum += ZoneScore(z)
		count++
	}
	if count == 0 {
		return clamp(base)
	}
	return clamp(base + (sum/float64(count) - baseScore))
}

// ScoreZones аннотирует зоны их оценкой безопасности (тепловая карта, зоны рядом)
func ScoreZones(zones []models.Zone) []models.ScoredZone {
	out := make([]models.ScoredZone, len(zones))
	for i, z := range zones {
		out[i] = models.ScoredZone{Zone: z, SafetyScore: ZoneScore(z)}
	}
	return out
}

func lengthBonus(lengthMeters float64) float64 {
	switch {
	case lengthMeters < shortRouteMeters:
		return 10
	case lengthMeters < mediumRouteMeters:
		return 5
	}
	return 0
}

// sampleIndices возвращает индексы точек выборки. Для одной точки - середина последовательности.
func sampleIndices(length, samples int) []int {
	if samples <= 1 || length == 1 {
		return []int{length / 2}
	}
	if samples >= length {
		out := make([]int, length)
		for i := range out {
			out[i] = i
		}
		return out
	}

	out := make([]int, samples)
	step := float64(length-1) / float64(samples-1)
	for i := range out {
		out[i] = int(math.Round(float64(i) * step))
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(minScore, math.Min(maxScore, v))
}
