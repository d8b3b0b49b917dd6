package service

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/shenikar/safe_walk_system/internal/config"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/scoring"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	CreateIdempotent(ctx context.Context, incident *models.Incident, dedupKey string) (bool, error)
	FindNearby(ctx context.Context, lat, lon float64, radiusMeters, limit int) ([]*models.Incident, error)
}

// ZoneIndex - неизменяемый набор зон, загруженный при старте
type ZoneIndex interface {
	Within(center models.RoutePoint, radiusMeters float64) []models.Zone
	Zones() []models.Zone
}

// IncidentService определяет контракт для бизнес-логики сообщений об опасности
type IncidentService interface {
	ReportIncident(ctx context.Context, incident *models.Incident) error
	Nearby(ctx context.Context, lat, lon float64, radiusMeters int) (*models.NearbyResult, error)
}

type incidentService struct {
	repo   IncidentRepository
	zones  ZoneIndex
	logger *logrus.Logger
	cfg    *config.Config
}

func NewIncidentService(repo IncidentRepository, zones ZoneIndex, logger *logrus.Logger, cfg *config.Config) IncidentService {
	return &incidentService{
		repo:   repo,
		zones:  zones,
		logger: logger,
		cfg:    cfg,
	}
}

// ReportIncident сохраняет сообщение об опасности
func (s *incidentService) ReportIncident(ctx context.Context, incident *models.Incident) error {
	if incident.ReporterID == "" {
		incident.ReporterID = models.AnonymousReporter
	}
	incident.Verified = false

	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ReportIncident",
		"type":    incident.Type,
	})
	log.Info("Attempting to report a new incident")

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not report incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully")
	return nil
}

// Nearby возвращает инциденты из бд и зоны набора данных в радиусе от точки
func (s *incidentService) Nearby(ctx context.Context, lat, lon float64, radiusMeters int) (*models.NearbyResult, error) {
	if radiusMeters <= 0 {
		radiusMeters = s.cfg.NearbyDefaultRadius
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Nearby",
		"radius":  radiusMeters,
	})
	log.Info("Querying nearby incidents")

	incidents, err := s.repo.FindNearby(ctx, lat, lon, radiusMeters, s.cfg.NearbyMaxResults)
	if err != nil {
		log.WithError(err).Error("Failed to find nearby incidents")
		return nil, fmt.Errorf("service: failed to find nearby incidents: %w", err)
	}

	zones := scoring.ScoreZones(s.zones.Within(models.RoutePoint{Latitude: lat, Longitude: lon}, float64(radiusMeters)))

	log.WithFields(logrus.Fields{
		"incidents": len(incidents),
		"zones":     len(zones),
	}).Info("Nearby query completed")
	return &models.NearbyResult{Incidents: incidents, Zones: zones}, nil
}
