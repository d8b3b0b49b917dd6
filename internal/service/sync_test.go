package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/safe_walk_system/internal/broadcast"
	broadcast_mocks "github.com/shenikar/safe_walk_system/internal/broadcast/mocks"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/service/mocks"
	webhook_mocks "github.com/shenikar/safe_walk_system/internal/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type syncTestDeps struct {
	incidents *mocks.MockIncidentRepository
	alerts    *mocks.MockSOSRepository
	publisher *broadcast_mocks.MockPublisher
	webhook   *webhook_mocks.MockWebhookPublisher
}

func newTestSyncService(t *testing.T) (*syncService, syncTestDeps) {
	ctrl := gomock.NewController(t)
	deps := syncTestDeps{
		incidents: mocks.NewMockIncidentRepository(ctrl),
		alerts:    mocks.NewMockSOSRepository(ctrl),
		publisher: broadcast_mocks.NewMockPublisher(ctrl),
		webhook:   webhook_mocks.NewMockWebhookPublisher(ctrl),
	}
	service := NewSyncService(deps.incidents, deps.alerts, deps.publisher, deps.webhook, newTestLogger())
	return service.(*syncService), deps
}

func syncEntry(clientID string, entryType models.SyncEntryType, data string) models.SyncEntry {
	return models.SyncEntry{ClientID: clientID, Type: entryType, Data: json.RawMessage(data)}
}

func TestApplyBatch_AcceptedAndDuplicate(t *testing.T) {
	// Подготовка
	service, deps := newTestSyncService(t)
	ctx := context.Background()
	entries := []models.SyncEntry{
		syncEntry("c1", models.SyncEntryIncident, `{"type":"theft","lat":40.758,"lon":-73.9855}`),
		syncEntry("c2", models.SyncEntryIncident, `{"type":"harassment","lat":40.7,"lon":-73.9,"reporterId":"u9"}`),
	}

	// Ожидания
	gomock.InOrder(
		deps.incidents.EXPECT().
			CreateIdempotent(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inc *models.Incident, key string) (bool, error) {
				assert.Equal(t, "c1", inc.ClientID)
				assert.Equal(t, models.AnonymousReporter, inc.ReporterID)
				assert.Len(t, key, 64)
				return true, nil
			}).Times(1),
		deps.incidents.EXPECT().
			CreateIdempotent(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inc *models.Incident, _ string) (bool, error) {
				assert.Equal(t, "u9", inc.ReporterID)
				return false, nil
			}).Times(1),
	)

	// Действие
	result, err := service.ApplyBatch(ctx, entries)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.AcceptedCount)
	assert.Equal(t, 1, result.DuplicateCount)
	assert.Empty(t, result.Rejected)
}

func TestApplyBatch_RejectsInvalidEntries(t *testing.T) {
	// Подготовка
	service, deps := newTestSyncService(t)
	ctx := context.Background()
	entries := []models.SyncEntry{
		syncEntry("c1", models.SyncEntryIncident, `{"type":"theft","lat":null,"lon":-73.9855}`),
		syncEntry("c2", "chat", `{}`),
		syncEntry("", models.SyncEntryIncident, `{"type":"theft","lat":1,"lon":1}`),
		syncEntry("c4", models.SyncEntrySOS, `not json`),
		syncEntry("c5", models.SyncEntryIncident, ``),
		syncEntry("c6", models.SyncEntryIncident, `{"type":"theft","lat":95,"lon":1}`),
	}

	// Ожидания
	deps.incidents.EXPECT().CreateIdempotent(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	deps.alerts.EXPECT().CreateIdempotent(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	result, err := service.ApplyBatch(ctx, entries)

	// Проверки
	require.NoError(t, err)
	assert.Zero(t, result.AcceptedCount)
	assert.Zero(t, result.DuplicateCount)
	require.Len(t, result.Rejected, 6)

	assert.Equal(t, "c1", result.Rejected[0].ClientID)
	assert.Equal(t, "lat failed on 'required'", result.Rejected[0].Reason)
	assert.Equal(t, `unknown entry type "chat"`, result.Rejected[1].Reason)
	assert.Equal(t, "clientId is required", result.Rejected[2].Reason)
	assert.Contains(t, result.Rejected[3].Reason, "malformed data")
	assert.Equal(t, "data is required", result.Rejected[4].Reason)
	assert.Equal(t, "lat failed on 'latitude'", result.Rejected[5].Reason)
}

func TestApplyBatch_StorageErrorFailsBatch(t *testing.T) {
	service, deps := newTestSyncService(t)
	ctx := context.Background()
	entries := []models.SyncEntry{
		syncEntry("c1", models.SyncEntryIncident, `{"type":"theft","lat":1,"lon":1}`),
		syncEntry("c2", models.SyncEntryIncident, `{"type":"theft","lat":2,"lon":2}`),
	}

	deps.incidents.EXPECT().
		CreateIdempotent(ctx, gomock.Any(), gomock.Any()).
		Return(false, fmt.Errorf("connection refused")).
		Times(1)

	result, err := service.ApplyBatch(ctx, entries)

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestApplyBatch_SOSAnnouncedOnlyWhenInserted(t *testing.T) {
	// Подготовка
	service, deps := newTestSyncService(t)
	ctx := context.Background()
	alertID := uuid.New()
	entries := []models.SyncEntry{
		syncEntry("s1", models.SyncEntrySOS, `{"userId":"u1","lat":40.758,"lon":-73.9855,"reason":"followed"}`),
		syncEntry("s1", models.SyncEntrySOS, `{"userId":"u1","lat":40.758,"lon":-73.9855,"reason":"followed"}`),
	}

	// Ожидания
	var keys []string
	gomock.InOrder(
		deps.alerts.EXPECT().
			CreateIdempotent(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a *models.SOSAlert, key string) (bool, error) {
				a.ID = alertID
				keys = append(keys, key)
				return true, nil
			}).Times(1),
		deps.alerts.EXPECT().
			CreateIdempotent(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *models.SOSAlert, key string) (bool, error) {
				keys = append(keys, key)
				return false, nil
			}).Times(1),
	)
	deps.publisher.EXPECT().
		Publish(ctx, broadcast.TopicSOSAlert, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, payload any) error {
			event, ok := payload.(models.SOSEvent)
			require.True(t, ok)
			assert.Equal(t, "s1", event.ID)
			return nil
		}).Times(1)
	deps.webhook.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	result, err := service.ApplyBatch(ctx, entries)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.AcceptedCount)
	assert.Equal(t, 1, result.DuplicateCount)
	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1])
}

func TestDedupKey(t *testing.T) {
	lat, lon := 1.0, 2.0
	payload := models.IncidentPayload{Type: "theft", Latitude: &lat, Longitude: &lon}

	a, err := DedupKey("c1", models.SyncEntryIncident, payload)
	require.NoError(t, err)
	b, err := DedupKey("c1", models.SyncEntryIncident, payload)
	require.NoError(t, err)
	c, err := DedupKey("c2", models.SyncEntryIncident, payload)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

type sessionMarker struct {
	seen map[string]bool
}

func (m *sessionMarker) Mark(_ context.Context, key string) (bool, error) {
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func TestSOSSession_SyncAndRelayAnnouncedOnce(t *testing.T) {
	// Подготовка: синхронизация и ретрансляция идут через один живой канал
	ctrl := gomock.NewController(t)
	alerts := mocks.NewMockSOSRepository(ctrl)
	live := broadcast_mocks.NewMockPublisher(ctrl)
	hooks := webhook_mocks.NewMockWebhookPublisher(ctrl)
	publisher := broadcast.NewOncePublisher(live, &sessionMarker{seen: map[string]bool{}}, newTestLogger(), broadcast.TopicSOSAlert)

	syncSvc := NewSyncService(mocks.NewMockIncidentRepository(ctrl), alerts, publisher, hooks, newTestLogger())
	sosSvc := NewSOSService(alerts, publisher, hooks, newTestLogger())
	ctx := context.Background()

	// Ожидания
	alerts.EXPECT().
		CreateIdempotent(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.SOSAlert, _ string) (bool, error) {
			a.ID = uuid.New()
			return true, nil
		}).Times(1)
	hooks.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)
	live.EXPECT().Publish(ctx, broadcast.TopicSOSAlert, gomock.Any()).Return(nil).Times(1)

	// Действие
	_, err := syncSvc.ApplyBatch(ctx, []models.SyncEntry{
		syncEntry("session-1", models.SyncEntrySOS, `{"userId":"u1","lat":40.758,"lon":-73.9855,"reason":"followed"}`),
	})
	require.NoError(t, err)
	err = sosSvc.Relay(ctx, broadcast.TopicSOSAlert, json.RawMessage(`{"id":"session-1","userId":"u1","lat":40.758,"lon":-73.9855,"reason":"followed"}`))

	// Проверки
	require.NoError(t, err)
}

func TestApply_ResubmissionIsSyncDuplicate(t *testing.T) {
	// Подготовка
	service, deps := newTestSyncService(t)
	ctx := context.Background()
	entry := syncEntry("c1", models.SyncEntryIncident, `{"type":"theft","lat":40.758,"lon":-73.9855}`)

	// Ожидания
	deps.incidents.EXPECT().CreateIdempotent(ctx, gomock.Any(), gomock.Any()).Return(false, nil).Times(1)

	// Действие
	reason, err := service.apply(ctx, entry, newTestLogger().WithField("test", "apply"))

	// Проверки
	assert.Empty(t, reason)
	assert.ErrorIs(t, err, models.ErrSyncDuplicate)
}
