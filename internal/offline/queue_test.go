package offline

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidentEntry(t *testing.T, clientID string, lat float64) models.SyncEntry {
	t.Helper()
	lon := -73.98
	data, err := json.Marshal(models.IncidentPayload{Type: "harassment", Latitude: &lat, Longitude: &lon})
	require.NoError(t, err)
	return models.SyncEntry{ClientID: clientID, Type: models.SyncEntryIncident, Data: data}
}

func TestQueue_EnqueuePersistsAndReopens(t *testing.T) {
	// Подготовка
	path := filepath.Join(t.TempDir(), "queue.jsonl")
	q, err := OpenQueue(path)
	require.NoError(t, err)

	// Действие
	first, err := q.Enqueue(incidentEntry(t, "c1", 40.1))
	require.NoError(t, err)
	_, err = q.Enqueue(incidentEntry(t, "c2", 40.2))
	require.NoError(t, err)
	generated, err := q.Enqueue(models.SyncEntry{Type: models.SyncEntrySOS, Data: json.RawMessage(`{}`)})
	require.NoError(t, err)

	// Проверки
	assert.False(t, first.CreatedAt.IsZero())
	assert.NotEmpty(t, generated.ClientID)

	reopened, err := OpenQueue(path)
	require.NoError(t, err)
	entries := reopened.List()
	require.Len(t, entries, 3)
	assert.Equal(t, "c1", entries[0].ClientID)
	assert.Equal(t, "c2", entries[1].ClientID)
	assert.Equal(t, generated.ClientID, entries[2].ClientID)
}

func TestQueue_RejectsDuplicateClientID(t *testing.T) {
	q, err := OpenQueue(filepath.Join(t.TempDir(), "queue.jsonl"))
	require.NoError(t, err)

	_, err = q.Enqueue(incidentEntry(t, "c1", 40.1))
	require.NoError(t, err)
	_, err = q.Enqueue(incidentEntry(t, "c1", 40.1))

	assert.True(t, errors.Is(err, ErrAlreadyQueued))
	assert.Equal(t, 1, q.Len())
}

func TestQueue_RemoveKeepsOthers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.jsonl")
	q, err := OpenQueue(path)
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c"} {
		_, err := q.Enqueue(incidentEntry(t, id, 10))
		require.NoError(t, err)
	}

	require.NoError(t, q.Remove([]string{"a", "c", "unknown"}))

	entries := q.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ClientID)

	reopened, err := OpenQueue(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
}

func TestQueue_MarkAttemptAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.jsonl")
	q, err := OpenQueue(path)
	require.NoError(t, err)
	_, err = q.Enqueue(incidentEntry(t, "a", 10))
	require.NoError(t, err)
	_, err = q.Enqueue(incidentEntry(t, "b", 10))
	require.NoError(t, err)

	require.NoError(t, q.MarkAttempt([]string{"a"}))
	require.NoError(t, q.MarkAttempt([]string{"a"}))

	reopened, err := OpenQueue(path)
	require.NoError(t, err)
	entries := reopened.List()
	assert.Equal(t, 2, entries[0].Attempts)
	assert.Equal(t, 0, entries[1].Attempts)

	require.NoError(t, q.Clear())
	assert.Equal(t, 0, q.Len())
	reopened, err = OpenQueue(path)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())
}

func TestQueue_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.jsonl")
	content := `{"clientId":"ok-1","type":"incident","data":{}}
{"clientId":"broken",
{"clientId":"ok-2","type":"sos","data":{}}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	q, err := OpenQueue(path)
	require.NoError(t, err)

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 1, q.Corrupt())
}

func TestDeadLetterQueue(t *testing.T) {
	dlq := NewDeadLetterQueue(filepath.Join(t.TempDir(), "queue.jsonl.rejected"))

	letters, err := dlq.List()
	require.NoError(t, err)
	assert.Empty(t, letters)

	require.NoError(t, dlq.Append(models.SyncEntry{ClientID: "x"}, "lat is required"))

	letters, err = dlq.List()
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "x", letters[0].Entry.ClientID)
	assert.Equal(t, "lat is required", letters[0].Reason)
}
