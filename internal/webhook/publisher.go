package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_walk_system/internal/models"
)

const (
	webhookQueueKey = "webhook_events"
)

// GuardianNotification - оповещение опекунов о срабатывании SOS
type GuardianNotification struct {
	SOSID     string    `json:"sos_id"`
	UserID    string    `json:"user_id"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Reason    string    `json:"reason"`
	MapsURL   string    `json:"maps_url"`
	Timestamp time.Time `json:"timestamp"`
}

// NewGuardianNotification строит оповещение по сохраненной тревоге
func NewGuardianNotification(alert *models.SOSAlert) GuardianNotification {
	return GuardianNotification{
		SOSID:     alert.ID.String(),
		UserID:    alert.UserID,
		Latitude:  alert.Latitude,
		Longitude: alert.Longitude,
		Reason:    alert.Reason,
		MapsURL:   MapsURL(alert.Latitude, alert.Longitude),
		Timestamp: alert.CreatedAt,
	}
}

// MapsURL - ссылка на точку на карте для SMS/мессенджера опекуна
func MapsURL(lat, lon float64) string {
	return "https://maps.google.com/?q=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lon, 'f', -1, 64)
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event GuardianNotification) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event GuardianNotification) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в левую часть списка, воркер забирает справа
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
