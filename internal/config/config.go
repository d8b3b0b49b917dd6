package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config - структура для хранения конфигурации сервера
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Redis Config
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	// Zone dataset
	ZoneDatasetPath string `envconfig:"ZONE_DATASET_PATH" default:"dataset/safetyData.json"`

	// Routing provider (TomTom)
	TomTomAPIKey           string        `envconfig:"TOMTOM_API_KEY"`
	TomTomBaseURL          string        `envconfig:"TOMTOM_BASE_URL" default:"https://api.tomtom.com"`
	RoutingMaxAlternatives int           `envconfig:"ROUTING_MAX_ALTERNATIVES" default:"2"`
	RoutingTimeout         time.Duration `envconfig:"ROUTING_TIMEOUT" default:"10s"`
	RoutingRatePerSecond   float64       `envconfig:"ROUTING_RATE_PER_SECOND" default:"5"`

	// Scoring: 1 - только середина маршрута
	ScoringSamplePoints int `envconfig:"SCORING_SAMPLE_POINTS" default:"1"`

	HeatmapCacheTTL time.Duration `envconfig:"HEATMAP_CACHE_TTL" default:"5m"`

	// Канал Redis для живой рассылки (все темы в одном канале)
	BroadcastChannel string `envconfig:"BROADCAST_CHANNEL" default:"safewalk:live"`
	// Срок хранения отметок опубликованных sos-alert
	BroadcastDedupTTL time.Duration `envconfig:"BROADCAST_DEDUP_TTL" default:"24h"`

	// Webhook Config (оповещение опекунов)
	WebhookURL        string        `envconfig:"WEBHOOK_URL"`
	WebhookSecret     string        `envconfig:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"5s"`
	WebhookMaxRetries int           `envconfig:"WEBHOOK_MAX_RETRIES" default:"3"`
	WebhookBaseDelay  time.Duration `envconfig:"WEBHOOK_BASE_DELAY" default:"1s"`

	// Nearby query
	NearbyDefaultRadius int `envconfig:"NEARBY_DEFAULT_RADIUS" default:"500"`
	NearbyMaxResults    int `envconfig:"NEARBY_MAX_RESULTS" default:"200"`
}

// AgentConfig - конфигурация клиентского агента
type AgentConfig struct {
	BackendURL     string        `envconfig:"BACKEND_URL" default:"http://localhost:8080/api/v1"`
	UserID         string        `envconfig:"AGENT_USER_ID" default:"anonymous"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	QueuePath      string        `envconfig:"AGENT_QUEUE_PATH" default:"safewalk-queue.jsonl"`
	ContactsPath   string        `envconfig:"AGENT_CONTACTS_PATH" default:"safewalk-contacts.json"`
	ProbeInterval  time.Duration `envconfig:"AGENT_PROBE_INTERVAL" default:"5s"`
	RequestTimeout time.Duration `envconfig:"AGENT_REQUEST_TIMEOUT" default:"10s"`

	// SOS countdown
	CountdownTicks int           `envconfig:"SOS_COUNTDOWN_TICKS" default:"5"`
	TickInterval   time.Duration `envconfig:"SOS_TICK_INTERVAL" default:"1s"`
	NotifyInterval time.Duration `envconfig:"SOS_NOTIFY_INTERVAL" default:"2s"`
}

// LoadConfig загружает конфигурацию сервера из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}

	if cfg.ScoringSamplePoints < 1 {
		cfg.ScoringSamplePoints = 1
	}
	if cfg.RoutingMaxAlternatives < 0 {
		return nil, fmt.Errorf("ROUTING_MAX_ALTERNATIVES must not be negative")
	}
	return cfg, nil
}

// LoadAgentConfig загружает конфигурацию агента
func LoadAgentConfig() (*AgentConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &AgentConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}
	if cfg.CountdownTicks < 1 {
		return nil, fmt.Errorf("SOS_COUNTDOWN_TICKS must be positive")
	}
	return cfg, nil
}

// loadDotEnv загружает переменные окружения из .env файла (если есть)
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}
	return nil
}
