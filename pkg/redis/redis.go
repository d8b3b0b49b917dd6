package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ClientName - имя соединений сервера в CLIENT LIST
const ClientName = "safewalk-api"

// NewRedisClient подключается к Redis, который обслуживает живой канал,
// очередь вебхуков и кэш тепловой карты. Соединение проверяется через PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   password,
		DB:         db,
		PoolSize:   10,
		ClientName: ClientName,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return rdb, nil
}
