package offline

//go:generate mockgen -source=reconciler.go -destination=mocks/mock_submitter.go -package=mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/sirupsen/logrus"
)

// State - состояние синхронизации
type State string

const (
	StateIdle     State = "idle"
	StateFlushing State = "flushing"
)

// BatchSubmitter отправляет пакет записей на сервер
type BatchSubmitter interface {
	SubmitBatch(ctx context.Context, entries []models.SyncEntry) (*models.SyncResult, error)
}

// Report - итог одной попытки синхронизации
type Report struct {
	Coalesced  bool                   `json:"coalesced"`
	Submitted  int                    `json:"submitted"`
	Accepted   int                    `json:"accepted"`
	Duplicates int                    `json:"duplicates"`
	Rejected   []models.RejectedEntry `json:"rejected"`
}

// Reconciler выгружает офлайн-очередь на сервер. Одновременно выполняется не больше
// одной выгрузки: повторный запрос во время выгрузки объединяется с текущей.
type Reconciler struct {
	queue      *Queue
	deadLetter *DeadLetterQueue
	submitter  BatchSubmitter
	logger     *logrus.Logger

	mu    sync.Mutex
	state State
}

// NewReconciler создает Reconciler. deadLetter может быть nil.
func NewReconciler(queue *Queue, deadLetter *DeadLetterQueue, submitter BatchSubmitter, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		queue:      queue,
		deadLetter: deadLetter,
		submitter:  submitter,
		logger:     logger,
		state:      StateIdle,
	}
}

// State возвращает текущее состояние
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Flush отправляет все ожидающие записи одним пакетом. Принятые и уже известные
// серверу записи удаляются из очереди, отклоненные переносятся в очередь отклоненных
// и возвращаются в *models.SyncPartialFailure. При ошибке отправки очередь не меняется.
func (r *Reconciler) Flush(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	if r.state == StateFlushing {
		r.mu.Unlock()
		r.logger.WithField("component", "reconciler").Debug("Flush already in progress, coalescing")
		return &Report{Coalesced: true}, nil
	}
	r.state = StateFlushing
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.state = StateIdle
		r.mu.Unlock()
	}()

	return r.flush(ctx)
}

func (r *Reconciler) flush(ctx context.Context) (*Report, error) {
	entries := r.queue.List()
	report := &Report{Submitted: len(entries)}
	if len(entries) == 0 {
		return report, nil
	}

	log := r.logger.WithFields(logrus.Fields{
		"component": "reconciler",
		"entries":   len(entries),
	})
	log.Info("Flushing offline queue")

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ClientID
	}
	if err := r.queue.MarkAttempt(ids); err != nil {
		log.WithError(err).Warn("Failed to record delivery attempt")
	}

	result, err := r.submitter.SubmitBatch(ctx, entries)
	if err != nil {
		log.WithError(err).Warn("Batch submission failed, entries kept for next attempt")
		return report, fmt.Errorf("offline: flush failed: %w", err)
	}

	report.Accepted = result.AcceptedCount
	report.Duplicates = result.DuplicateCount
	report.Rejected = result.Rejected

	byID := make(map[string]models.SyncEntry, len(entries))
	for _, e := range entries {
		byID[e.ClientID] = e
	}
	for _, rej := range result.Rejected {
		entry, ok := byID[rej.ClientID]
		if !ok || r.deadLetter == nil {
			continue
		}
		if err := r.deadLetter.Append(entry, rej.Reason); err != nil {
			// без сохранения в очередь отклоненных запись остается в основной очереди
			log.WithError(err).WithField("client_id", rej.ClientID).Error("Failed to move rejected entry")
			delete(byID, rej.ClientID)
		}
	}

	acked := make([]string, 0, len(byID))
	for _, e := range entries {
		if _, ok := byID[e.ClientID]; ok {
			acked = append(acked, e.ClientID)
		}
	}
	if err := r.queue.Remove(acked); err != nil {
		log.WithError(err).Error("Failed to remove acknowledged entries")
		return report, fmt.Errorf("offline: failed to remove acknowledged entries: %w", err)
	}

	log.WithFields(logrus.Fields{
		"accepted":   report.Accepted,
		"duplicates": report.Duplicates,
		"rejected":   len(report.Rejected),
	}).Info("Offline queue flushed")

	if len(report.Rejected) > 0 {
		return report, &models.SyncPartialFailure{Rejected: report.Rejected}
	}
	return report, nil
}
