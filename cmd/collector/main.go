// @title Worldcup Vote Collector API
// @version 1.0
// @description Приём голосов и статистика для игр-турниров "worldcup".
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/worldcup/cache"
	"github.com/Dosada05/worldcup/config"
	"github.com/Dosada05/worldcup/db"
	"github.com/Dosada05/worldcup/handlers"
	"github.com/Dosada05/worldcup/live"
	"github.com/Dosada05/worldcup/middleware"
	"github.com/Dosada05/worldcup/repositories"
	"github.com/Dosada05/worldcup/routes"
	"github.com/Dosada05/worldcup/services"
	"github.com/Dosada05/worldcup/storage"
)

const (
	shutdownTimeout      = 15 * time.Second
	visitorCleanupPeriod = time.Minute
	visitorIdleTimeout   = 3 * time.Minute
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Open(ctx, db.Options{DSN: cfg.DatabaseURL})
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		logger.Error("failed to prepare database schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	// Кэш статистики (необязательный)
	var statsCache services.StatisticsCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisCache.Close()
		statsCache = redisCache
		logger.Info("statistics cache enabled")
	}

	// Публикация снимков статистики в Cloudflare R2 (необязательная)
	var snapshots storage.FileUploader
	if cfg.R2.Enabled() {
		snapshots, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	worldcupRepo := repositories.NewPostgresWorldcupRepository(dbConn)
	voteRepo := repositories.NewPostgresVoteRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)

	// Инициализация сервисов
	tx := services.NewSQLTransactor(dbConn)
	sessionService := services.NewSessionService(cfg.SessionSecretKey, cfg.SessionTTL)
	worldcupService := services.NewWorldcupService(worldcupRepo, sessionService)
	statisticsService := services.NewStatisticsService(services.StatisticsServiceDeps{
		Tx:        tx,
		Worldcups: worldcupRepo,
		Stats:     statsRepo,
		Sessions:  sessionService,
		Cache:     statsCache,
		CacheTTL:  cfg.StatsCacheTTL,
		Hub:       hub,
		Snapshots: snapshots,
		Logger:    logger,
	})
	voteService := services.NewVoteService(tx, worldcupRepo, voteRepo, statisticsService, logger)
	logger.Info("Services initialized")

	voteLimiter := middleware.NewRateLimiter(cfg.VoteRateLimit, cfg.VoteRateBurst)
	go voteLimiter.Cleanup(ctx, visitorCleanupPeriod, visitorIdleTimeout)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Worldcups:  handlers.NewWorldcupHandler(worldcupService),
		Votes:      handlers.NewVoteHandler(voteService, logger),
		Statistics: handlers.NewStatisticsHandler(statisticsService),
		WebSocket:  handlers.NewWebSocketHandler(hub, worldcupService, cfg.CORSAllowedOrigins),
	}, cfg.CORSAllowedOrigins, voteLimiter)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	// Hub закрывает websocket-клиентов
	stop()
	logger.Info("application exited")
}
