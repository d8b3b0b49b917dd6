package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Connectivity сообщает, есть ли связь с сервером
type Connectivity interface {
	Online() bool
}

// Client - HTTP-клиент API сервера
type Client struct {
	baseURL    string
	httpClient *http.Client
	status     Connectivity
	logger     *logrus.Logger
}

// NewClient создает клиента. До вызова SetConnectivity запросы выполняются без проверки связи.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SetConnectivity подключает монитор связи
func (c *Client) SetConnectivity(status Connectivity) {
	c.status = status
}

// Health проверяет доступность сервера. Вызывается без проверки связи.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/system/health", nil)
	if err != nil {
		return fmt.Errorf("agent: failed to create health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent: %w: %w", models.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("agent: health check returned status %d", resp.StatusCode)
	}
	return nil
}

// SubmitBatch отправляет записи очереди на /sync/batch
func (c *Client) SubmitBatch(ctx context.Context, entries []models.SyncEntry) (*models.SyncResult, error) {
	var result models.SyncResult
	if err := c.post(ctx, "/sync/batch", map[string]any{"entries": entries}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Publish ретранслирует событие в живой канал через /broadcast/:topic
func (c *Client) Publish(ctx context.Context, topic string, payload any) error {
	return c.post(ctx, "/broadcast/"+url.PathEscape(topic), payload, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if c.status != nil && !c.status.Online() {
		return fmt.Errorf("agent: POST %s: %w", path, models.ErrNetworkUnavailable)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("agent: failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("agent: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent: POST %s: %w: %w", path, models.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("agent: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"component": "client",
			"path":      path,
			"status":    resp.StatusCode,
		}).Warn("Backend returned error status")
		return fmt.Errorf("agent: POST %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("agent: failed to decode response: %w", err)
	}
	return nil
}
