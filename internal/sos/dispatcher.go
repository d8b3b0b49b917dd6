package sos

//go:generate mockgen -source=dispatcher.go -destination=mocks/mock_dispatcher.go -package=mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/sirupsen/logrus"
)

// TopicSOSAlert - тема живого канала для SOS
const TopicSOSAlert = "sos-alert"

// Submitter передает SOS на сервер (через офлайн-очередь)
type Submitter interface {
	SubmitSOS(ctx context.Context, event models.SOSEvent) error
}

// Publisher публикует событие в живой канал
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Ticker - источник тиков обратного отсчета
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory создает Ticker с заданным интервалом
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker - TickerFactory на основе time.Ticker
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Config - параметры обратного отсчета
type Config struct {
	CountdownTicks int
	TickInterval   time.Duration
	NotifyInterval time.Duration
}

// Option настраивает Dispatcher
type Option func(*Dispatcher)

// WithTicker подменяет источник тиков
func WithTicker(f TickerFactory) Option {
	return func(d *Dispatcher) { d.newTicker = f }
}

// WithOnChange задает обработчик каждого изменения сессии
func WithOnChange(fn func(models.SOSSession)) Option {
	return func(d *Dispatcher) { d.onChange = fn }
}

// Dispatcher - машина состояний SOS: idle -> counting -> active -> idle.
// Отмена возможна из counting и active. Все изменения сессии выполняются под одним мьютексом,
// каждый тик проверяет поколение сессии, поэтому отмена не гонится с тиком.
type Dispatcher struct {
	userID    string
	contacts  []models.Contact
	submitter Submitter
	publisher Publisher
	cfg       Config
	logger    *logrus.Logger
	newTicker TickerFactory
	onChange  func(models.SOSSession)

	mu         sync.Mutex
	session    *models.SOSSession
	generation uint64
	cancel     context.CancelFunc
}

// NewDispatcher создает Dispatcher. Контакты берутся из профиля пользователя и не копируются.
func NewDispatcher(userID string, contacts []models.Contact, submitter Submitter, publisher Publisher, cfg Config, logger *logrus.Logger, opts ...Option) *Dispatcher {
	if cfg.CountdownTicks < 1 {
		cfg.CountdownTicks = 1
	}
	d := &Dispatcher{
		userID:    userID,
		contacts:  contacts,
		submitter: submitter,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		newTicker: NewTimeTicker,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger запускает обратный отсчет. Отсчет живет дольше ctx: значения ctx наследуются, отмена - нет.
func (d *Dispatcher) Trigger(ctx context.Context, location models.RoutePoint, reason string) (models.SOSSession, error) {
	d.mu.Lock()
	if d.session != nil {
		state := d.session.State
		d.mu.Unlock()
		return models.SOSSession{}, fmt.Errorf("sos: trigger in state %s: %w", state, models.ErrInvalidTransition)
	}

	statuses := make([]models.ContactStatus, len(d.contacts))
	for i := range d.contacts {
		statuses[i] = models.ContactStatus{Contact: &d.contacts[i], Status: models.NotificationPending}
	}
	d.session = &models.SOSSession{
		ID:        uuid.NewString(),
		State:     models.SOSStateCounting,
		Remaining: d.cfg.CountdownTicks,
		Location:  location,
		Reason:    reason,
		Contacts:  statuses,
	}
	d.generation++
	gen := d.generation
	// отсчет останавливают только Cancel и Resolve, а не завершение ctx вызывающего
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel
	snap := d.snapshotLocked()
	d.mu.Unlock()

	d.logger.WithFields(logrus.Fields{
		"component": "sos",
		"session":   snap.ID,
		"remaining": snap.Remaining,
	}).Info("SOS countdown started")
	d.emit(snap)

	go d.runCountdown(runCtx, gen)
	return snap, nil
}

// Cancel отменяет обратный отсчет или активную тревогу и возвращает машину в idle
func (d *Dispatcher) Cancel() error {
	return d.stop(models.SOSStateCancelled, "SOS cancelled")
}

// Resolve завершает тревогу (пользователь в безопасности)
func (d *Dispatcher) Resolve() error {
	return d.stop(models.SOSStateIdle, "SOS resolved")
}

func (d *Dispatcher) stop(final models.SOSState, msg string) error {
	d.mu.Lock()
	if d.session == nil {
		d.mu.Unlock()
		return fmt.Errorf("sos: stop in state idle: %w", models.ErrInvalidTransition)
	}
	d.generation++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	last := d.snapshotLocked()
	last.State = final
	d.session = nil
	d.mu.Unlock()

	d.logger.WithFields(logrus.Fields{
		"component": "sos",
		"session":   last.ID,
	}).Info(msg)

	if final != models.SOSStateIdle {
		d.emit(last)
	}
	d.emit(models.SOSSession{ID: last.ID, State: models.SOSStateIdle})
	return nil
}

// Snapshot возвращает копию текущей сессии. Без сессии - состояние idle.
func (d *Dispatcher) Snapshot() models.SOSSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return models.SOSSession{State: models.SOSStateIdle}
	}
	return d.snapshotLocked()
}

func (d *Dispatcher) runCountdown(ctx context.Context, gen uint64) {
	ticker := d.newTicker(d.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			d.mu.Lock()
			if d.generation != gen || d.session == nil || d.session.State != models.SOSStateCounting {
				d.mu.Unlock()
				return
			}
			d.session.Remaining--
			activated := d.session.Remaining <= 0
			if activated {
				d.session.Remaining = 0
				d.session.State = models.SOSStateActive
			}
			snap := d.snapshotLocked()
			d.mu.Unlock()

			d.emit(snap)
			if activated {
				d.activate(ctx, gen, snap)
				return
			}
		}
	}
}

// activate выполняет по порядку: отправку на сервер, публикацию в живой канал,
// последовательное оповещение контактов
func (d *Dispatcher) activate(ctx context.Context, gen uint64, snap models.SOSSession) {
	log := d.logger.WithFields(logrus.Fields{
		"component": "sos",
		"session":   snap.ID,
	})
	log.Warn("SOS alert active")

	event := models.SOSEvent{
		ID:        snap.ID,
		UserID:    d.userID,
		Latitude:  snap.Location.Latitude,
		Longitude: snap.Location.Longitude,
		Reason:    snap.Reason,
		Time:      time.Now().UTC(),
	}

	if err := d.submitter.SubmitSOS(ctx, event); err != nil {
		log.WithError(err).Error("Failed to submit SOS")
	}
	if !d.current(gen) {
		return
	}
	if err := d.publisher.Publish(ctx, TopicSOSAlert, event); err != nil {
		log.WithError(err).Warn("Failed to broadcast SOS")
	}

	for i := range snap.Contacts {
		if !d.setContactStatus(gen, i, models.NotificationNotifying) {
			return
		}
		if !d.wait(ctx, d.cfg.NotifyInterval) {
			return
		}
		if !d.setContactStatus(gen, i, models.NotificationNotified) {
			return
		}
	}
	log.Info("All contacts notified")
}

func (d *Dispatcher) setContactStatus(gen uint64, idx int, status models.NotificationStatus) bool {
	d.mu.Lock()
	if d.generation != gen || d.session == nil || idx >= len(d.session.Contacts) {
		d.mu.Unlock()
		return false
	}
	d.session.Contacts[idx].Status = status
	snap := d.snapshotLocked()
	d.mu.Unlock()

	d.emit(snap)
	return true
}

func (d *Dispatcher) wait(ctx context.Context, interval time.Duration) bool {
	ticker := d.newTicker(interval)
	defer ticker.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-ticker.C():
		return true
	}
}

func (d *Dispatcher) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation == gen && d.session != nil
}

func (d *Dispatcher) snapshotLocked() models.SOSSession {
	snap := *d.session
	snap.Contacts = make([]models.ContactStatus, len(d.session.Contacts))
	copy(snap.Contacts, d.session.Contacts)
	return snap
}

func (d *Dispatcher) emit(snap models.SOSSession) {
	if d.onChange != nil {
		d.onChange(snap)
	}
}
