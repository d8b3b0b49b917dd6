package service

//go:generate mockgen -source=sos.go -destination=mocks/mock_sos.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/safe_walk_system/internal/broadcast"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

const activeAlertsLimit = 50

// ErrUnknownTopic - тема не разрешена для ретрансляции
var ErrUnknownTopic = errors.New("unknown broadcast topic")

// SOSRepository определяет контракт для работы с бд тревог
type SOSRepository interface {
	Create(ctx context.Context, alert *models.SOSAlert) error
	CreateIdempotent(ctx context.Context, alert *models.SOSAlert, dedupKey string) (bool, error)
	ListActive(ctx context.Context, limit int) ([]*models.SOSAlert, error)
	Resolve(ctx context.Context, id uuid.UUID) error
}

// SOSService определяет контракт для работы с тревогами
type SOSService interface {
	Trigger(ctx context.Context, alert *models.SOSAlert) error
	ListActive(ctx context.Context) ([]*models.SOSAlert, error)
	Resolve(ctx context.Context, id uuid.UUID) error
	Relay(ctx context.Context, topic string, payload json.RawMessage) error
}

type sosService struct {
	repo             SOSRepository
	publisher        broadcast.Publisher
	webhookPublisher webhook.WebhookPublisher
	logger           *logrus.Logger
}

func NewSOSService(repo SOSRepository, publisher broadcast.Publisher, webhookPublisher webhook.WebhookPublisher, logger *logrus.Logger) SOSService {
	return &sosService{
		repo:             repo,
		publisher:        publisher,
		webhookPublisher: webhookPublisher,
		logger:           logger,
	}
}

// Trigger сохраняет тревогу, публикует sos-alert и ставит оповещение опекунов в очередь
func (s *sosService) Trigger(ctx context.Context, alert *models.SOSAlert) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "sos",
		"method":  "Trigger",
		"user_id": alert.UserID,
	})
	log.Warn("SOS triggered")

	if err := s.repo.Create(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to create sos alert in repository")
		return fmt.Errorf("service: could not create sos alert: %w", err)
	}

	announceSOS(ctx, s.publisher, s.webhookPublisher, alert, log)
	return nil
}

// ListActive возвращает неразрешенные тревоги
func (s *sosService) ListActive(ctx context.Context) ([]*models.SOSAlert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "sos",
		"method":  "ListActive",
	})

	alerts, err := s.repo.ListActive(ctx, activeAlertsLimit)
	if err != nil {
		log.WithError(err).Error("Failed to list active sos alerts")
		return nil, fmt.Errorf("service: could not list active sos alerts: %w", err)
	}
	log.WithField("count", len(alerts)).Info("Active sos alerts listed")
	return alerts, nil
}

// Resolve помечает тревогу разрешенной
func (s *sosService) Resolve(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "sos",
		"method":  "Resolve",
		"sos_id":  id,
	})

	if err := s.repo.Resolve(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to resolve sos alert")
		return fmt.Errorf("service: could not resolve sos alert: %w", err)
	}
	log.Info("SOS alert resolved")
	return nil
}

// Relay публикует событие клиента в живой канал
func (s *sosService) Relay(ctx context.Context, topic string, payload json.RawMessage) error {
	if !broadcast.AllowedTopic(topic) {
		return fmt.Errorf("service: %q: %w", topic, ErrUnknownTopic)
	}
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "sos",
			"method":  "Relay",
			"topic":   topic,
		}).WithError(err).Error("Failed to relay broadcast")
		return fmt.Errorf("service: could not relay broadcast: %w", err)
	}
	return nil
}

// announceSOS рассылает сохраненную тревогу. Ошибки доставки только логируются:
// тревога уже сохранена.
func announceSOS(ctx context.Context, publisher broadcast.Publisher, webhookPublisher webhook.WebhookPublisher, alert *models.SOSAlert, log *logrus.Entry) {
	// синхронизированная тревога несет id сессии клиента, тот же, что и в ретрансляции
	id := alert.ClientID
	if id == "" {
		id = alert.ID.String()
	}
	event := models.SOSEvent{
		ID:        id,
		UserID:    alert.UserID,
		Latitude:  alert.Latitude,
		Longitude: alert.Longitude,
		Reason:    alert.Reason,
		Time:      alert.CreatedAt,
	}
	if err := publisher.Publish(ctx, broadcast.TopicSOSAlert, event); err != nil {
		log.WithError(err).Error("Failed to publish sos-alert")
	}
	if err := webhookPublisher.Publish(ctx, webhook.NewGuardianNotification(alert)); err != nil {
		log.WithError(err).Error("Failed to enqueue guardian notification")
	}
}
