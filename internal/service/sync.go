package service

//go:generate mockgen -source=sync.go -destination=mocks/mock_sync.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shenikar/safe_walk_system/internal/broadcast"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

// SyncService принимает пакеты записей из офлайн-очередей клиентов
type SyncService interface {
	ApplyBatch(ctx context.Context, entries []models.SyncEntry) (*models.SyncResult, error)
}

type syncService struct {
	incidents        IncidentRepository
	alerts           SOSRepository
	publisher        broadcast.Publisher
	webhookPublisher webhook.WebhookPublisher
	validate         *validator.Validate
	logger           *logrus.Logger
}

func NewSyncService(incidents IncidentRepository, alerts SOSRepository, publisher broadcast.Publisher, webhookPublisher webhook.WebhookPublisher, logger *logrus.Logger) SyncService {
	return &syncService{
		incidents:        incidents,
		alerts:           alerts,
		publisher:        publisher,
		webhookPublisher: webhookPublisher,
		validate:         newValidator(),
		logger:           logger,
	}
}

// ApplyBatch применяет записи пакета идемпотентно. Некорректные записи отклоняются
// с причиной, повторные засчитываются как дубликаты. Ошибка хранилища прерывает
// весь пакет: клиент сохранит записи и повторит отправку.
func (s *syncService) ApplyBatch(ctx context.Context, entries []models.SyncEntry) (*models.SyncResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "sync",
		"method":  "ApplyBatch",
		"entries": len(entries),
	})
	log.Info("Applying sync batch")

	result := &models.SyncResult{Rejected: make([]models.RejectedEntry, 0)}
	for _, entry := range entries {
		reason, err := s.apply(ctx, entry, log)
		switch {
		case errors.Is(err, models.ErrSyncDuplicate):
			result.DuplicateCount++
		case err != nil:
			log.WithError(err).WithField("client_id", entry.ClientID).Error("Failed to store sync entry")
			return nil, fmt.Errorf("service: could not apply sync batch: %w", err)
		case reason != "":
			result.Rejected = append(result.Rejected, models.RejectedEntry{ClientID: entry.ClientID, Reason: reason})
		default:
			result.AcceptedCount++
		}
	}

	log.WithFields(logrus.Fields{
		"accepted":   result.AcceptedCount,
		"duplicates": result.DuplicateCount,
		"rejected":   len(result.Rejected),
	}).Info("Sync batch applied")
	return result, nil
}

// apply возвращает причину отказа или ошибку. Повторная запись - ошибка ErrSyncDuplicate.
func (s *syncService) apply(ctx context.Context, entry models.SyncEntry, log *logrus.Entry) (string, error) {
	if entry.ClientID == "" {
		return "clientId is required", nil
	}

	switch entry.Type {
	case models.SyncEntryIncident:
		var payload models.IncidentPayload
		if reason := s.decode(entry.Data, &payload); reason != "" {
			return reason, nil
		}
		key, err := DedupKey(entry.ClientID, entry.Type, payload)
		if err != nil {
			return "", err
		}
		incident := &models.Incident{
			ReporterID:  payload.ReporterID,
			Type:        payload.Type,
			Description: payload.Description,
			Latitude:    *payload.Latitude,
			Longitude:   *payload.Longitude,
			ClientID:    entry.ClientID,
		}
		if incident.ReporterID == "" {
			incident.ReporterID = models.AnonymousReporter
		}
		inserted, err := s.incidents.CreateIdempotent(ctx, incident, key)
		return "", insertResult(entry.ClientID, inserted, err)

	case models.SyncEntrySOS:
		var payload models.SOSPayload
		if reason := s.decode(entry.Data, &payload); reason != "" {
			return reason, nil
		}
		key, err := DedupKey(entry.ClientID, entry.Type, payload)
		if err != nil {
			return "", err
		}
		alert := &models.SOSAlert{
			UserID:    payload.UserID,
			Latitude:  *payload.Latitude,
			Longitude: *payload.Longitude,
			Reason:    payload.Reason,
			ClientID:  entry.ClientID,
		}
		inserted, err := s.alerts.CreateIdempotent(ctx, alert, key)
		if err := insertResult(entry.ClientID, inserted, err); err != nil {
			return "", err
		}
		announceSOS(ctx, s.publisher, s.webhookPublisher, alert, log.WithField("client_id", entry.ClientID))
		return "", nil
	}
	return fmt.Sprintf("unknown entry type %q", entry.Type), nil
}

func insertResult(clientID string, inserted bool, err error) error {
	if err != nil {
		return err
	}
	if !inserted {
		return fmt.Errorf("service: entry %s: %w", clientID, models.ErrSyncDuplicate)
	}
	return nil
}

func (s *syncService) decode(data json.RawMessage, payload any) string {
	if len(data) == 0 {
		return "data is required"
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return "malformed data: " + err.Error()
	}
	if err := s.validate.Struct(payload); err != nil {
		return validationReason(err)
	}
	return ""
}
