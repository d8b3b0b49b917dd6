package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/safe_walk_system/internal/broadcast"
	"github.com/shenikar/safe_walk_system/internal/config"
	v1 "github.com/shenikar/safe_walk_system/internal/handler/http/v1"
	"github.com/shenikar/safe_walk_system/internal/repository"
	"github.com/shenikar/safe_walk_system/internal/routing"
	"github.com/shenikar/safe_walk_system/internal/scoring"
	"github.com/shenikar/safe_walk_system/internal/service"
	"github.com/shenikar/safe_walk_system/internal/webhook"
	"github.com/shenikar/safe_walk_system/internal/zone"
	"github.com/shenikar/safe_walk_system/pkg/logger"
	"github.com/shenikar/safe_walk_system/pkg/postgres"
	redisclient "github.com/shenikar/safe_walk_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/safe_walk_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Safe Walk System API
// @version 1.0
// @description Safety-scored routing, incident reports, offline sync and SOS alerts.
// @host localhost:8080
// @BasePath /api/v1
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// loadZones загружает набор зон. Без набора сервер работает с пустым индексом.
func loadZones(cfg *config.Config, log *logrus.Logger) *zone.Index {
	index, err := zone.LoadFile(cfg.ZoneDatasetPath, log)
	if err != nil {
		log.WithError(err).WithField("path", cfg.ZoneDatasetPath).Warn("Zone dataset unavailable, starting with empty index")
		return zone.NewIndex(nil)
	}
	log.WithField("zones", index.Len()).Info("Zone dataset loaded")
	return index
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, os.Stdout)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Зоны, оценка и маршрутизация
	zones := loadZones(cfg, log)
	engine := scoring.NewEngine(zones, scoring.WithSamplePoints(cfg.ScoringSamplePoints))
	ranker := routing.NewRanker(routing.NewTomTomClient(cfg), engine, log)

	// Живой канал: публикация через Redis, раздача websocket-клиентам
	// sos-alert одной сессии уходит в канал один раз: объявление при синхронизации и ретрансляция клиента
	publisher := broadcast.NewOncePublisher(
		broadcast.NewRedisPublisher(redisClient, cfg.BroadcastChannel),
		broadcast.NewRedisMarker(redisClient, "safewalk:broadcast:", cfg.BroadcastDedupTTL),
		log,
		broadcast.TopicSOSAlert,
	)
	hub := broadcast.NewHub(log)
	hub.Listen(ctx, redisClient, cfg.BroadcastChannel)

	// Инициализация издателя вебхуков
	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient)

	// Инициализация и запуск воркера вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
	webhookWorker.Start(ctx)

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool)
	sosRepo := repository.NewSOSRepository(dbpool)
	heatmapCache := repository.NewHeatmapCache(redisClient, cfg.HeatmapCacheTTL)

	// Инициализация сервисов
	services := v1.Services{
		Incident: service.NewIncidentService(incidentRepo, zones, log, cfg),
		Sync:     service.NewSyncService(incidentRepo, sosRepo, publisher, webhookPublisher, log),
		SOS:      service.NewSOSService(sosRepo, publisher, webhookPublisher, log),
		Safety:   service.NewSafetyService(zones, heatmapCache, ranker, log),
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(services, hub, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	// Останавливаем воркер и подписку живого канала
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
