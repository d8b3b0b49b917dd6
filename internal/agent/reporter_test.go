package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/offline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend принимает пакеты как сервер: повторный clientId считается дубликатом
type fakeBackend struct {
	mu      sync.Mutex
	seen    map[string]models.SyncEntry
	batches int
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/system/health":
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	case "/sync/batch":
		var body struct {
			Entries []models.SyncEntry `json:"entries"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.batches++
		result := models.SyncResult{Rejected: []models.RejectedEntry{}}
		for _, e := range body.Entries {
			if _, ok := b.seen[e.ClientID]; ok {
				result.DuplicateCount++
				continue
			}
			b.seen[e.ClientID] = e
			result.AcceptedCount++
		}
		_ = json.NewEncoder(w).Encode(result)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *fakeBackend) batchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.batches
}

func (b *fakeBackend) accepted(clientID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.seen[clientID]
	return ok
}

type reporterFixture struct {
	reporter *Reporter
	monitor  *Monitor
	backend  *fakeBackend
	queue    *offline.Queue
}

func newTestReporter(t *testing.T) reporterFixture {
	backend := &fakeBackend{seen: make(map[string]models.SyncEntry)}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	logger := newTestLogger()
	path := filepath.Join(t.TempDir(), "queue.jsonl")
	queue, err := offline.OpenQueue(path)
	require.NoError(t, err)

	client := NewClient(server.URL, time.Second, logger)
	monitor := NewMonitor(client, time.Hour, logger)
	client.SetConnectivity(monitor)

	reconciler := offline.NewReconciler(queue, offline.NewDeadLetterQueue(path+".rejected"), client, logger)
	reporter := NewReporter("user-1", queue, reconciler, monitor, logger)
	monitor.OnOnline(func(ctx context.Context) { _, _ = reporter.Flush(ctx) })

	return reporterFixture{reporter: reporter, monitor: monitor, backend: backend, queue: queue}
}

func TestReporter_OfflineThenRestored(t *testing.T) {
	// Подготовка
	f := newTestReporter(t)
	ctx := context.Background()
	lat, lon := 40.758, -73.9855

	// Действие: монитор еще не проверял связь, запись остается в очереди
	entry, err := f.reporter.ReportIncident(ctx, models.IncidentPayload{Type: "theft", Latitude: &lat, Longitude: &lon})

	// Проверки
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ClientID)
	assert.Equal(t, 1, f.queue.Len())
	assert.Zero(t, f.backend.batchCount())

	var payload models.IncidentPayload
	require.NoError(t, json.Unmarshal(entry.Data, &payload))
	assert.Equal(t, "user-1", payload.ReporterID)

	// Действие: связь восстановлена, очередь выгружается один раз
	assert.True(t, f.monitor.Check(ctx))
	assert.True(t, f.monitor.Check(ctx))

	// Проверки
	assert.Zero(t, f.queue.Len())
	assert.Equal(t, 1, f.backend.batchCount())
	assert.True(t, f.backend.accepted(entry.ClientID))
}

func TestReporter_OnlineFlushesImmediately(t *testing.T) {
	f := newTestReporter(t)
	ctx := context.Background()
	require.True(t, f.monitor.Check(ctx))
	lat, lon := 1.0, 2.0

	_, err := f.reporter.ReportIncident(ctx, models.IncidentPayload{Type: "theft", Latitude: &lat, Longitude: &lon})

	require.NoError(t, err)
	assert.Zero(t, f.queue.Len())
	assert.Empty(t, f.reporter.Pending())
}

func TestReporter_SubmitSOSUsesSessionID(t *testing.T) {
	// Подготовка
	f := newTestReporter(t)
	ctx := context.Background()
	event := models.SOSEvent{ID: "session-1", UserID: "user-1", Latitude: 1, Longitude: 2, Reason: "followed"}

	// Действие: офлайн, повторная отправка той же сессии не дублирует запись
	require.NoError(t, f.reporter.SubmitSOS(ctx, event))
	require.NoError(t, f.reporter.SubmitSOS(ctx, event))

	// Проверки
	pending := f.reporter.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "session-1", pending[0].ClientID)
	assert.Equal(t, models.SyncEntrySOS, pending[0].Type)

	f.monitor.Check(ctx)
	assert.Zero(t, f.queue.Len())
	assert.True(t, f.backend.accepted("session-1"))
}

func TestReporter_FlushReportsNetworkError(t *testing.T) {
	f := newTestReporter(t)
	ctx := context.Background()
	lat, lon := 1.0, 2.0

	_, err := f.reporter.ReportIncident(ctx, models.IncidentPayload{Type: "theft", Latitude: &lat, Longitude: &lon})
	require.NoError(t, err)

	// Монитор offline: клиент отказывает без запроса, запись сохраняется
	_, err = f.reporter.Flush(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNetworkUnavailable))
	assert.Equal(t, 1, f.queue.Len())
}
