package agent

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Prober проверяет доступность сервера
type Prober interface {
	Health(ctx context.Context) error
}

// Monitor периодически проверяет связь и вызывает обработчик один раз
// на каждый переход offline -> online. Начальное состояние - offline.
type Monitor struct {
	prober   Prober
	interval time.Duration
	logger   *logrus.Logger

	mu       sync.RWMutex
	online   bool
	onOnline func(ctx context.Context)
}

// NewMonitor создает монитор связи
func NewMonitor(prober Prober, interval time.Duration, logger *logrus.Logger) *Monitor {
	return &Monitor{
		prober:   prober,
		interval: interval,
		logger:   logger,
	}
}

// OnOnline задает обработчик восстановления связи
func (m *Monitor) OnOnline(fn func(ctx context.Context)) {
	m.mu.Lock()
	m.onOnline = fn
	m.mu.Unlock()
}

// Online возвращает последнее известное состояние связи
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Check выполняет одну проверку и возвращает новое состояние
func (m *Monitor) Check(ctx context.Context) bool {
	err := m.prober.Health(ctx)
	online := err == nil

	m.mu.Lock()
	restored := online && !m.online
	lost := !online && m.online
	m.online = online
	fn := m.onOnline
	m.mu.Unlock()

	log := m.logger.WithField("component", "monitor")
	switch {
	case restored:
		log.Info("Connectivity restored")
		if fn != nil {
			fn(ctx)
		}
	case lost:
		log.WithError(err).Warn("Connectivity lost")
	}
	return online
}

// Run проверяет связь сразу и затем с интервалом, пока не отменен ctx
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
