package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_walk_system/internal/config"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(url, secret string) *WebhookWorker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return NewWebhookWorker(nil, logger, &config.Config{
		WebhookURL:        url,
		WebhookSecret:     secret,
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	})
}

func testNotification() (GuardianNotification, string) {
	alert := &models.SOSAlert{
		ID:        uuid.New(),
		UserID:    "user-1",
		Latitude:  40.758,
		Longitude: -73.9855,
		Reason:    "followed",
		CreatedAt: time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC),
	}
	event := NewGuardianNotification(alert)
	raw, _ := json.Marshal(event)
	return event, string(raw)
}

func TestProcessWebhookEvent_SignsPayload(t *testing.T) {
	// Подготовка
	var gotSignature, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	worker := newTestWorker(srv.URL, "s3cret")
	event, raw := testNotification()

	// Действие
	ok := worker.processWebhookEvent(context.Background(), event, raw)

	// Проверки
	require.True(t, ok)
	assert.Equal(t, raw, gotBody)
	assert.Equal(t, generateHMACSHA256(raw, "s3cret"), gotSignature)
	assert.Contains(t, gotBody, `"maps_url":"https://maps.google.com/?q=40.758,-73.9855"`)
}

func TestProcessWebhookEvent_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	event, raw := testNotification()
	ok := newTestWorker(srv.URL, "").processWebhookEvent(context.Background(), event, raw)

	assert.True(t, ok)
	assert.Equal(t, int32(3), calls.Load())
}

func TestProcessWebhookEvent_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	event, raw := testNotification()
	ok := newTestWorker(srv.URL, "").processWebhookEvent(context.Background(), event, raw)

	assert.False(t, ok)
	assert.Equal(t, int32(3), calls.Load())
}

func TestProcessWebhookEvent_NoURL(t *testing.T) {
	event, raw := testNotification()
	assert.False(t, newTestWorker("", "").processWebhookEvent(context.Background(), event, raw))
}

func TestMapsURL(t *testing.T) {
	assert.Equal(t, "https://maps.google.com/?q=-33.8688,151.2093", MapsURL(-33.8688, 151.2093))
}
