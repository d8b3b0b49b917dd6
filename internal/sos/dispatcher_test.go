package sos

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/sos/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// manualTicker - тикер, управляемый тестом. Все созданные тикеры читают один канал.
type manualTicker struct {
	ch chan time.Time
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}

func (m *manualTicker) tick(t *testing.T) {
	t.Helper()
	select {
	case m.ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("tick was not consumed")
	}
}

// recorder собирает снимки сессии, переданные в OnChange
type recorder struct {
	mu     sync.Mutex
	states []models.SOSSession
}

func (r *recorder) record(s models.SOSSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) sawState(state models.SOSState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.states {
		if s.State == state {
			return true
		}
	}
	return false
}

func newTestDispatcher(t *testing.T, contacts []models.Contact) (*Dispatcher, *mocks.MockSubmitter, *mocks.MockPublisher, *manualTicker, *recorder) {
	ctrl := gomock.NewController(t)
	submitter := mocks.NewMockSubmitter(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	ticker := &manualTicker{ch: make(chan time.Time)}
	rec := &recorder{}

	d := NewDispatcher("user-1", contacts, submitter, publisher, Config{
		CountdownTicks: 5,
		TickInterval:   time.Second,
		NotifyInterval: time.Second,
	}, logger,
		WithTicker(func(time.Duration) Ticker { return ticker }),
		WithOnChange(rec.record),
	)
	return d, submitter, publisher, ticker, rec
}

func TestDispatcher_CancelDuringCountdownNeverActivates(t *testing.T) {
	// Подготовка
	d, submitter, publisher, ticker, rec := newTestDispatcher(t, nil)

	// Ожидания: ни отправки, ни публикации
	submitter.EXPECT().SubmitSOS(gomock.Any(), gomock.Any()).Times(0)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	session, err := d.Trigger(context.Background(), models.RoutePoint{Latitude: 40.7, Longitude: -73.9}, "followed")
	require.NoError(t, err)
	assert.Equal(t, models.SOSStateCounting, session.State)
	assert.Equal(t, 5, session.Remaining)

	ticker.tick(t)
	ticker.tick(t)
	require.Eventually(t, func() bool { return d.Snapshot().Remaining == 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, d.Cancel())

	// Проверки
	assert.Equal(t, models.SOSStateIdle, d.Snapshot().State)
	for i := 0; i < 5; i++ {
		select {
		case ticker.ch <- time.Now():
		case <-time.After(10 * time.Millisecond):
		}
	}
	assert.Equal(t, models.SOSStateIdle, d.Snapshot().State)
	assert.False(t, rec.sawState(models.SOSStateActive))
	assert.True(t, rec.sawState(models.SOSStateCancelled))
}

func TestDispatcher_ActivationOrder(t *testing.T) {
	// Подготовка
	contacts := []models.Contact{
		{ID: "c1", Name: "Mom", Phone: "+100", IsPrimary: true},
		{ID: "c2", Name: "Friend", Phone: "+200"},
	}
	d, submitter, publisher, ticker, _ := newTestDispatcher(t, contacts)
	location := models.RoutePoint{Latitude: 40.758, Longitude: -73.9855}

	// Ожидания: сначала отправка на сервер, затем живой канал
	gomock.InOrder(
		submitter.EXPECT().
			SubmitSOS(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e models.SOSEvent) error {
				assert.Equal(t, "user-1", e.UserID)
				assert.Equal(t, 40.758, e.Latitude)
				assert.Equal(t, "followed", e.Reason)
				return nil
			}).Times(1),
		publisher.EXPECT().
			Publish(gomock.Any(), TopicSOSAlert, gomock.AssignableToTypeOf(models.SOSEvent{})).
			Return(nil).Times(1),
	)

	// Действие
	_, err := d.Trigger(context.Background(), location, "followed")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		ticker.tick(t)
	}
	require.Eventually(t, func() bool { return d.Snapshot().State == models.SOSStateActive }, time.Second, 5*time.Millisecond)

	// первый контакт оповещается, ждет интервал
	require.Eventually(t, func() bool {
		return d.Snapshot().Contacts[0].Status == models.NotificationNotifying
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, models.NotificationPending, d.Snapshot().Contacts[1].Status)

	ticker.tick(t)
	ticker.tick(t)

	// Проверки
	require.Eventually(t, func() bool {
		s := d.Snapshot()
		return s.Contacts[0].Status == models.NotificationNotified && s.Contacts[1].Status == models.NotificationNotified
	}, time.Second, 5*time.Millisecond)

	snap := d.Snapshot()
	assert.Same(t, &contacts[0], snap.Contacts[0].Contact)
	assert.Equal(t, models.SOSStateActive, snap.State)

	require.NoError(t, d.Resolve())
	assert.Equal(t, models.SOSStateIdle, d.Snapshot().State)
}

func TestDispatcher_FailuresDoNotStopActivation(t *testing.T) {
	d, submitter, publisher, ticker, _ := newTestDispatcher(t, nil)

	published := make(chan struct{})
	submitter.EXPECT().SubmitSOS(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).Times(1)
	publisher.EXPECT().
		Publish(gomock.Any(), TopicSOSAlert, gomock.Any()).
		DoAndReturn(func(context.Context, string, any) error {
			close(published)
			return models.ErrNetworkUnavailable
		}).Times(1)

	_, err := d.Trigger(context.Background(), models.RoutePoint{}, "")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		ticker.tick(t)
	}

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("sos was not broadcast")
	}
	assert.Equal(t, models.SOSStateActive, d.Snapshot().State)
}

func TestDispatcher_InvalidTransitions(t *testing.T) {
	d, _, _, _, _ := newTestDispatcher(t, nil)

	assert.ErrorIs(t, d.Cancel(), models.ErrInvalidTransition)
	assert.ErrorIs(t, d.Resolve(), models.ErrInvalidTransition)

	_, err := d.Trigger(context.Background(), models.RoutePoint{}, "")
	require.NoError(t, err)
	_, err = d.Trigger(context.Background(), models.RoutePoint{}, "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	require.NoError(t, d.Cancel())
	assert.Equal(t, models.SOSStateIdle, d.Snapshot().State)
}

func TestDispatcher_CallerContextDoesNotStopCountdown(t *testing.T) {
	// Подготовка
	d, submitter, publisher, ticker, _ := newTestDispatcher(t, nil)
	published := make(chan struct{})

	// Ожидания: тревога активируется, несмотря на завершенный ctx вызывающего
	submitter.EXPECT().SubmitSOS(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	publisher.EXPECT().
		Publish(gomock.Any(), TopicSOSAlert, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ any) error {
			assert.NoError(t, ctx.Err())
			close(published)
			return nil
		}).Times(1)

	// Действие
	ctx, cancel := context.WithCancel(context.Background())
	_, err := d.Trigger(ctx, models.RoutePoint{Latitude: 1, Longitude: 2}, "followed")
	require.NoError(t, err)
	cancel()
	for i := 0; i < 5; i++ {
		ticker.tick(t)
	}

	// Проверки
	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("sos was not activated after caller context ended")
	}
	assert.Equal(t, models.SOSStateActive, d.Snapshot().State)

	require.NoError(t, d.Resolve())
	_, err = d.Trigger(context.Background(), models.RoutePoint{}, "")
	require.NoError(t, err)
	require.NoError(t, d.Cancel())
}
