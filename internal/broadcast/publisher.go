package broadcast

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Темы живого канала
const (
	TopicSOSAlert     = "sos-alert"
	TopicUserLocation = "user-location"
)

// Publisher публикует событие в тему живого канала
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Message - конверт события живого канала
type Message struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// AllowedTopic сообщает, можно ли ретранслировать тему от клиента
func AllowedTopic(topic string) bool {
	return topic == TopicSOSAlert || topic == TopicUserLocation
}

// NewMessage упаковывает полезную нагрузку в конверт
func NewMessage(topic string, payload any) ([]byte, error) {
	raw, ok := payload.(json.RawMessage)
	if !ok {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal broadcast payload: %w", err)
		}
		raw = encoded
	}
	data, err := json.Marshal(Message{Topic: topic, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal broadcast message: %w", err)
	}
	return data, nil
}

// RedisPublisher - реализация Publisher через Redis Pub/Sub. Все темы идут в один
// канал Redis, тема передается в конверте.
type RedisPublisher struct {
	redisClient *redis.Client
	channel     string
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
		channel:     channel,
	}
}

// Publish публикует событие в канал Redis
func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload any) error {
	data, err := NewMessage(topic, payload)
	if err != nil {
		return err
	}
	if err := p.redisClient.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event to Redis: %w", topic, err)
	}
	return nil
}
