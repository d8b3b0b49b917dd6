package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/offline"
	"github.com/sirupsen/logrus"
)

// Reporter - точка входа клиентских действий: запись всегда сначала попадает
// в офлайн-очередь, затем, если есть связь, запускается синхронизация.
type Reporter struct {
	userID     string
	queue      *offline.Queue
	reconciler *offline.Reconciler
	status     Connectivity
	logger     *logrus.Logger
}

// NewReporter создает Reporter
func NewReporter(userID string, queue *offline.Queue, reconciler *offline.Reconciler, status Connectivity, logger *logrus.Logger) *Reporter {
	return &Reporter{
		userID:     userID,
		queue:      queue,
		reconciler: reconciler,
		status:     status,
		logger:     logger,
	}
}

// ReportIncident ставит инцидент в очередь и синхронизирует ее при наличии связи
func (r *Reporter) ReportIncident(ctx context.Context, payload models.IncidentPayload) (models.SyncEntry, error) {
	if payload.ReporterID == "" {
		payload.ReporterID = r.userID
	}
	entry, err := r.enqueue(models.SyncEntryIncident, "", payload)
	if err != nil {
		return models.SyncEntry{}, err
	}
	r.flushIfOnline(ctx)
	return entry, nil
}

// SubmitSOS ставит SOS в очередь и синхронизирует ее при наличии связи.
// clientId записи - идентификатор сессии SOS, повторная отправка той же сессии не дублируется.
func (r *Reporter) SubmitSOS(ctx context.Context, event models.SOSEvent) error {
	lat, lon := event.Latitude, event.Longitude
	payload := models.SOSPayload{
		UserID:    event.UserID,
		Latitude:  &lat,
		Longitude: &lon,
		Reason:    event.Reason,
	}
	if _, err := r.enqueue(models.SyncEntrySOS, event.ID, payload); err != nil {
		if !errors.Is(err, offline.ErrAlreadyQueued) {
			return err
		}
	}
	r.flushIfOnline(ctx)
	return nil
}

// Flush выгружает очередь на сервер
func (r *Reporter) Flush(ctx context.Context) (*offline.Report, error) {
	log := r.logger.WithFields(logrus.Fields{
		"component": "reporter",
		"pending":   r.queue.Len(),
	})

	report, err := r.reconciler.Flush(ctx)
	var partial *models.SyncPartialFailure
	switch {
	case errors.As(err, &partial):
		log.WithField("rejected", len(partial.Rejected)).Warn("Some queued entries were rejected")
	case errors.Is(err, models.ErrNetworkUnavailable):
		log.Info("Backend unreachable, entries stay queued")
	case err != nil:
		log.WithError(err).Error("Sync failed")
	case report.Coalesced:
		log.Debug("Sync already in progress")
	default:
		log.WithFields(logrus.Fields{
			"accepted":   report.Accepted,
			"duplicates": report.Duplicates,
		}).Info("Queue synced")
	}
	return report, err
}

// Pending возвращает записи, ожидающие отправки
func (r *Reporter) Pending() []models.SyncEntry {
	return r.queue.List()
}

func (r *Reporter) flushIfOnline(ctx context.Context) {
	if r.status != nil && !r.status.Online() {
		return
	}
	_, _ = r.Flush(ctx)
}

func (r *Reporter) enqueue(entryType models.SyncEntryType, clientID string, payload any) (models.SyncEntry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return models.SyncEntry{}, fmt.Errorf("agent: failed to marshal %s payload: %w", entryType, err)
	}
	entry, err := r.queue.Enqueue(models.SyncEntry{
		ClientID: clientID,
		Type:     entryType,
		Data:     data,
	})
	if err != nil {
		return models.SyncEntry{}, err
	}
	r.logger.WithFields(logrus.Fields{
		"component": "reporter",
		"type":      entryType,
		"client_id": entry.ClientID,
	}).Info("Entry queued")
	return entry, nil
}
