package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMarker struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (m *memoryMarker) Mark(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return nil
}

func (r *recordingPublisher) count(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.topics {
		if t == topic {
			n++
		}
	}
	return n
}

func newTestOncePublisher(marker Marker) (*OncePublisher, *recordingPublisher) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	next := &recordingPublisher{}
	return NewOncePublisher(next, marker, logger, TopicSOSAlert), next
}

func TestOncePublisher_SameSOSIdPublishedOnce(t *testing.T) {
	// Подготовка
	publisher, next := newTestOncePublisher(&memoryMarker{})
	ctx := context.Background()
	event := struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
	}{ID: "session-1", UserID: "u1"}

	// Действие: объявление после синхронизации и ретрансляция клиента
	require.NoError(t, publisher.Publish(ctx, TopicSOSAlert, event))
	require.NoError(t, publisher.Publish(ctx, TopicSOSAlert, json.RawMessage(`{"id":"session-1","userId":"u1"}`)))
	require.NoError(t, publisher.Publish(ctx, TopicSOSAlert, json.RawMessage(`{"id":"session-2","userId":"u1"}`)))

	// Проверки
	assert.Equal(t, 2, next.count(TopicSOSAlert))
}

func TestOncePublisher_PassThrough(t *testing.T) {
	publisher, next := newTestOncePublisher(&memoryMarker{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, publisher.Publish(ctx, TopicUserLocation, json.RawMessage(`{"id":"u1","lat":1,"lon":2}`)))
		require.NoError(t, publisher.Publish(ctx, TopicSOSAlert, json.RawMessage(`{"userId":"u1"}`)))
	}

	assert.Equal(t, 2, next.count(TopicUserLocation))
	assert.Equal(t, 2, next.count(TopicSOSAlert))
}

func TestOncePublisher_MarkerFailurePublishes(t *testing.T) {
	publisher, next := newTestOncePublisher(&memoryMarker{err: errors.New("redis down")})

	require.NoError(t, publisher.Publish(context.Background(), TopicSOSAlert, json.RawMessage(`{"id":"s1"}`)))

	assert.Equal(t, 1, next.count(TopicSOSAlert))
}
