package offline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_walk_system/internal/models"
)

// ErrAlreadyQueued - запись с таким clientId уже в очереди
var ErrAlreadyQueued = errors.New("entry already queued")

// Queue - долговременная упорядоченная очередь записей, созданных без сети.
// Хранится в файле JSON Lines: одна запись на строку, каждая строка разбирается отдельно.
// Добавление синхронно сбрасывается на диск.
type Queue struct {
	mu      sync.Mutex
	path    string
	entries []models.SyncEntry
	corrupt int
}

// OpenQueue открывает очередь по пути, загружая ранее сохраненные записи.
// Поврежденные строки пропускаются.
func OpenQueue(path string) (*Queue, error) {
	q := &Queue{path: path}

	lines, corrupt, err := readLines[models.SyncEntry](path)
	if err != nil {
		return nil, fmt.Errorf("offline: failed to open queue: %w", err)
	}
	q.entries = lines
	q.corrupt = corrupt
	return q, nil
}

// Enqueue добавляет запись в конец очереди. Если clientId не задан, он генерируется.
func (q *Queue) Enqueue(entry models.SyncEntry) (models.SyncEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if entry.ClientID == "" {
		entry.ClientID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	for _, e := range q.entries {
		if e.ClientID == entry.ClientID {
			return models.SyncEntry{}, fmt.Errorf("offline: %s: %w", entry.ClientID, ErrAlreadyQueued)
		}
	}

	if err := appendLine(q.path, entry); err != nil {
		return models.SyncEntry{}, fmt.Errorf("offline: failed to persist entry: %w", err)
	}
	q.entries = append(q.entries, entry)
	return entry, nil
}

// List возвращает ожидающие записи в порядке добавления
func (q *Queue) List() []models.SyncEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.SyncEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Len - количество ожидающих записей
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Corrupt - количество строк, пропущенных при открытии
func (q *Queue) Corrupt() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.corrupt
}

// Remove удаляет записи с указанными clientId. Записи, добавленные позже, сохраняются.
func (q *Queue) Remove(clientIDs []string) error {
	if len(clientIDs) == 0 {
		return nil
	}
	drop := toSet(clientIDs)

	q.mu.Lock()
	defer q.mu.Unlock()

	kept := make([]models.SyncEntry, 0, len(q.entries))
	for _, e := range q.entries {
		if _, ok := drop[e.ClientID]; !ok {
			kept = append(kept, e)
		}
	}
	if err := rewriteLines(q.path, kept); err != nil {
		return fmt.Errorf("offline: failed to remove entries: %w", err)
	}
	q.entries = kept
	return nil
}

// MarkAttempt увеличивает счетчик попыток доставки у указанных записей
func (q *Queue) MarkAttempt(clientIDs []string) error {
	marked := toSet(clientIDs)

	q.mu.Lock()
	defer q.mu.Unlock()

	updated := make([]models.SyncEntry, len(q.entries))
	copy(updated, q.entries)
	for i := range updated {
		if _, ok := marked[updated[i].ClientID]; ok {
			updated[i].Attempts++
		}
	}
	if err := rewriteLines(q.path, updated); err != nil {
		return fmt.Errorf("offline: failed to mark attempt: %w", err)
	}
	q.entries = updated
	return nil
}

// Clear очищает очередь
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := rewriteLines[models.SyncEntry](q.path, nil); err != nil {
		return fmt.Errorf("offline: failed to clear queue: %w", err)
	}
	q.entries = nil
	return nil
}

// DeadLetter - запись, отклоненная сервером
type DeadLetter struct {
	Entry      models.SyncEntry `json:"entry"`
	Reason     string           `json:"reason"`
	RejectedAt time.Time        `json:"rejectedAt"`
}

// DeadLetterQueue хранит отклоненные записи, чтобы они не терялись молча
type DeadLetterQueue struct {
	mu   sync.Mutex
	path string
}

// NewDeadLetterQueue создает очередь отклоненных записей
func NewDeadLetterQueue(path string) *DeadLetterQueue {
	return &DeadLetterQueue{path: path}
}

// Append сохраняет отклоненную запись
func (d *DeadLetterQueue) Append(entry models.SyncEntry, reason string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	letter := DeadLetter{Entry: entry, Reason: reason, RejectedAt: time.Now().UTC()}
	if err := appendLine(d.path, letter); err != nil {
		return fmt.Errorf("offline: failed to persist rejected entry: %w", err)
	}
	return nil
}

// List возвращает все отклоненные записи
func (d *DeadLetterQueue) List() ([]DeadLetter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	letters, _, err := readLines[DeadLetter](d.path)
	if err != nil {
		return nil, fmt.Errorf("offline: failed to read rejected entries: %w", err)
	}
	return letters, nil
}

func appendLine(path string, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// rewriteLines атомарно заменяет файл: запись во временный файл и переименование
func rewriteLines[T any](path string, items []T) error {
	var buf bytes.Buffer
	for _, item := range items {
		line, err := json.Marshal(item)
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func readLines[T any](path string) ([]T, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	defer f.Close()

	var (
		items   []T
		corrupt int
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			corrupt++
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return items, corrupt, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
