package routing

import (
	"context"
	"fmt"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	PrimaryColor     = "#3b82f6"
	AlternativeColor = "#94a3b8"
	PrimaryLabel     = "Recommended"
)

// RouteScorer вычисляет оценку безопасности маршрута
type RouteScorer interface {
	RouteScore(route models.Route) float64
}

// Ranker получает маршруты у провайдера и оценивает каждый из них
type Ranker struct {
	provider Provider
	scorer   RouteScorer
	logger   *logrus.Logger
}

// NewRanker создает Ranker
func NewRanker(provider Provider, scorer RouteScorer, logger *logrus.Logger) *Ranker {
	return &Ranker{
		provider: provider,
		scorer:   scorer,
		logger:   logger,
	}
}

// Rank возвращает маршруты в порядке провайдера с оценками и метками.
// Лучшим считается основной (первый) маршрут. Геометрия никогда не выдумывается:
// при ошибке провайдера или пустом ответе возвращается ErrRouteUnavailable.
func (r *Ranker) Rank(ctx context.Context, req Request) (*models.RankedRoutes, error) {
	log := r.logger.WithFields(logrus.Fields{
		"component": "ranker",
		"mode":      req.Mode,
	})

	routes, err := r.provider.Routes(ctx, req)
	if err != nil {
		log.WithError(err).Warn("Routing provider failed")
		return nil, fmt.Errorf("routing: %w: %w", models.ErrRouteUnavailable, err)
	}
	if len(routes) == 0 {
		log.Warn("Routing provider returned no routes")
		return nil, fmt.Errorf("routing: provider returned no routes: %w", models.ErrRouteUnavailable)
	}

	ranked := make([]models.Route, len(routes))
	g, gctx := errgroup.WithContext(ctx)
	for i := range routes {
		g.Go(func() error {
			// запрос уже отменен: не оцениваем и не отдаем частичный результат
			if err := gctx.Err(); err != nil {
				return err
			}
			route := routes[i]
			route.SafetyScore = r.scorer.RouteScore(route)
			route.Color, route.Label = displayMetadata(i)
			ranked[i] = route
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("Route scoring aborted")
		return nil, fmt.Errorf("routing: failed to score routes: %w", err)
	}

	log.WithField("routes", len(ranked)).Info("Routes ranked")
	return &models.RankedRoutes{
		Routes:      ranked,
		BestRouteID: ranked[0].ID,
	}, nil
}

func displayMetadata(index int) (string, string) {
	if index == 0 {
		return PrimaryColor, PrimaryLabel
	}
	return AlternativeColor, fmt.Sprintf("Alternative Route %d", index)
}
