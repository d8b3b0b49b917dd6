package service

//go:generate mockgen -source=safety.go -destination=mocks/mock_safety.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/routing"
	"github.com/shenikar/safe_walk_system/internal/scoring"
	"github.com/sirupsen/logrus"
)

// HeatmapCache - кеш тепловой карты
type HeatmapCache interface {
	Get(ctx context.Context) ([]models.ScoredZone, error)
	Set(ctx context.Context, zones []models.ScoredZone) error
}

// RouteRanker получает и оценивает маршруты
type RouteRanker interface {
	Rank(ctx context.Context, req routing.Request) (*models.RankedRoutes, error)
}

// SafetyService - тепловая карта и безопасные маршруты
type SafetyService interface {
	Heatmap(ctx context.Context) ([]models.ScoredZone, error)
	SafeRoutes(ctx context.Context, req routing.Request) (*models.RoutePlan, error)
}

type safetyService struct {
	zones  ZoneIndex
	cache  HeatmapCache
	ranker RouteRanker
	logger *logrus.Logger
}

func NewSafetyService(zones ZoneIndex, cache HeatmapCache, ranker RouteRanker, logger *logrus.Logger) SafetyService {
	return &safetyService{
		zones:  zones,
		cache:  cache,
		ranker: ranker,
		logger: logger,
	}
}

// Heatmap возвращает все зоны с их оценкой безопасности
func (s *safetyService) Heatmap(ctx context.Context) ([]models.ScoredZone, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "safety",
		"method":  "Heatmap",
	})

	cached, err := s.cache.Get(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to get heatmap from cache")
	} else if cached != nil {
		log.Debug("Heatmap found in cache")
		return cached, nil
	}

	scored := scoring.ScoreZones(s.zones.Zones())

	if err := s.cache.Set(ctx, scored); err != nil {
		log.WithError(err).Warn("Failed to set heatmap in cache")
	}
	log.WithField("zones", len(scored)).Info("Heatmap computed")
	return scored, nil
}

// SafeRoutes ранжирует маршруты и подбирает тайлы вдоль лучшего
func (s *safetyService) SafeRoutes(ctx context.Context, req routing.Request) (*models.RoutePlan, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "safety",
		"method":  "SafeRoutes",
		"mode":    req.Mode,
	})
	log.Info("Searching safe routes")

	ranked, err := s.ranker.Rank(ctx, req)
	if err != nil {
		log.WithError(err).Warn("Route search failed")
		return nil, fmt.Errorf("service: could not rank routes: %w", err)
	}

	plan := &models.RoutePlan{Ranked: ranked, TilesToCache: []string{}}
	if best, ok := ranked.Best(); ok {
		plan.TilesToCache = routing.TilesAlong(best.Points, routing.TileZoom)
	}

	log.WithFields(logrus.Fields{
		"routes":     len(ranked.Routes),
		"best_route": ranked.BestRouteID,
	}).Info("Safe routes found")
	return plan, nil
}
