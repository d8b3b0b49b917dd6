package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStatus bool

func (s staticStatus) Online() bool { return bool(s) }

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func TestClient_SubmitBatch(t *testing.T) {
	// Подготовка
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/sync/batch", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Entries []models.SyncEntry `json:"entries"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if !assert.Len(t, body.Entries, 2) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		_ = json.NewEncoder(w).Encode(models.SyncResult{
			AcceptedCount: 1,
			Rejected:      []models.RejectedEntry{{ClientID: body.Entries[1].ClientID, Reason: "bad"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/v1/", time.Second, newTestLogger())
	client.SetConnectivity(staticStatus(true))

	// Действие
	result, err := client.SubmitBatch(context.Background(), []models.SyncEntry{
		{ClientID: "a", Type: models.SyncEntryIncident, Data: json.RawMessage(`{}`)},
		{ClientID: "b", Type: models.SyncEntryIncident, Data: json.RawMessage(`{}`)},
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.AcceptedCount)
	assert.Equal(t, []models.RejectedEntry{{ClientID: "b", Reason: "bad"}}, result.Rejected)
}

func TestClient_OfflineFailsFast(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, newTestLogger())
	client.SetConnectivity(staticStatus(false))

	_, err := client.SubmitBatch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNetworkUnavailable))

	err = client.Publish(context.Background(), "sos-alert", models.SOSEvent{})
	assert.True(t, errors.Is(err, models.ErrNetworkUnavailable))

	// Health не зависит от состояния монитора
	require.NoError(t, client.Health(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_UnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second, newTestLogger())

	_, err := client.SubmitBatch(context.Background(), nil)
	assert.True(t, errors.Is(err, models.ErrNetworkUnavailable))
	assert.Error(t, client.Health(context.Background()))
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, newTestLogger())

	result, err := client.SubmitBatch(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "status 500")
	assert.False(t, errors.Is(err, models.ErrNetworkUnavailable))
}

func TestClient_PublishRelaysToTopic(t *testing.T) {
	type relayed struct {
		path string
		body []byte
	}
	got := make(chan relayed, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- relayed{path: r.URL.Path, body: body}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, newTestLogger())
	event := models.SOSEvent{ID: "s1", UserID: "u1", Latitude: 1, Longitude: 2}

	require.NoError(t, client.Publish(context.Background(), "sos-alert", event))

	r := <-got
	assert.Equal(t, "/broadcast/sos-alert", r.path)
	var decoded models.SOSEvent
	require.NoError(t, json.Unmarshal(r.body, &decoded))
	assert.Equal(t, event, decoded)
}
