package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Marker отмечает ключ события. false - ключ уже был отмечен раньше.
type Marker interface {
	Mark(ctx context.Context, key string) (bool, error)
}

// RedisMarker хранит отметки в Redis с ограниченным сроком жизни
type RedisMarker struct {
	redisClient *redis.Client
	prefix      string
	ttl         time.Duration
}

// NewRedisMarker создает новый RedisMarker
func NewRedisMarker(client *redis.Client, prefix string, ttl time.Duration) *RedisMarker {
	return &RedisMarker{
		redisClient: client,
		prefix:      prefix,
		ttl:         ttl,
	}
}

// Mark выставляет ключ через SETNX
func (m *RedisMarker) Mark(ctx context.Context, key string) (bool, error) {
	ok, err := m.redisClient.SetNX(ctx, m.prefix+key, 1, m.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark broadcast event %s: %w", key, err)
	}
	return ok, nil
}

// OncePublisher пропускает событие выбранных тем не более одного раза на id.
// События без id и события других тем передаются без проверки.
type OncePublisher struct {
	next   Publisher
	marker Marker
	topics map[string]struct{}
	logger *logrus.Logger
}

// NewOncePublisher создает OncePublisher для перечисленных тем
func NewOncePublisher(next Publisher, marker Marker, logger *logrus.Logger, topics ...string) *OncePublisher {
	set := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		set[t] = struct{}{}
	}
	return &OncePublisher{
		next:   next,
		marker: marker,
		topics: set,
		logger: logger,
	}
}

// Publish публикует событие, если его id еще не встречался
func (p *OncePublisher) Publish(ctx context.Context, topic string, payload any) error {
	if _, ok := p.topics[topic]; !ok {
		return p.next.Publish(ctx, topic, payload)
	}
	id := eventID(payload)
	if id == "" {
		return p.next.Publish(ctx, topic, payload)
	}

	log := p.logger.WithFields(logrus.Fields{
		"component": "broadcast",
		"topic":     topic,
		"event_id":  id,
	})
	first, err := p.marker.Mark(ctx, topic+":"+id)
	if err != nil {
		// без отметки публикуем: повтор лучше потерянной тревоги
		log.WithError(err).Warn("Failed to mark broadcast event, publishing anyway")
		return p.next.Publish(ctx, topic, payload)
	}
	if !first {
		log.Debug("Broadcast event already published, skipping")
		return nil
	}
	return p.next.Publish(ctx, topic, payload)
}

func eventID(payload any) string {
	raw, ok := payload.(json.RawMessage)
	if !ok {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return ""
		}
		raw = encoded
	}
	var event struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		return ""
	}
	return event.ID
}
