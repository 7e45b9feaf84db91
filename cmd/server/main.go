package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/portside/portside/config"
	apprepository "github.com/portside/portside/internal/app/repository"
	appserver "github.com/portside/portside/internal/app/server"
	appservice "github.com/portside/portside/internal/app/service"
	"github.com/portside/portside/internal/infra/assets"
	infradocker "github.com/portside/portside/internal/infra/docker"
	"github.com/portside/portside/internal/infra/logger"
	infraprom "github.com/portside/portside/internal/infra/prometheus"
	infraredis "github.com/portside/portside/internal/infra/redis"
	infrasqlite "github.com/portside/portside/internal/infra/sqlite"
	"github.com/portside/portside/internal/infra/tailscale"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("sqlite_path", cfg.SQLite.Path),
		zap.String("docker_socket", cfg.Docker.Socket),
		zap.String("uploads_dir", cfg.Uploads.Dir),
		zap.Int("server_port", cfg.Server.Port),
	)

	gormDB, err := infrasqlite.NewGorm(cfg.SQLite)
	if err != nil {
		log.Fatal("Failed to open SQLite store", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// Migration failures are per-step and logged inside Migrate; only a
	// broken migration bookkeeping table is fatal.
	if err := infrasqlite.Migrate(gormDB, log); err != nil {
		log.Fatal("Failed to initialize schema migrations", zap.Error(err))
	}

	runtime, err := infradocker.NewClient(cfg.Docker)
	if err != nil {
		log.Fatal("Failed to create Docker client", zap.Error(err))
	}

	assetStore, err := assets.NewStore(cfg.Uploads)
	if err != nil {
		log.Fatal("Failed to prepare uploads directory", zap.Error(err))
	}

	// Redis only backs rate limiting; run without it when unconfigured or
	// unreachable.
	redisClient, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Info("Running without Redis rate limiting", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info("Connected to Redis successfully")
	}

	if cfg.Prometheus.Port > 0 {
		promServer := infraprom.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	}

	shortcutRepo := apprepository.NewShortcutRepository(gormDB)
	sectionRepo := apprepository.NewSectionRepository(gormDB)

	server := appserver.New(appserver.Dependencies{
		Logger:     log,
		Redis:      redisClient,
		Shortcuts:  appservice.NewShortcutService(shortcutRepo),
		Sections:   appservice.NewSectionService(sectionRepo),
		Projection: appservice.NewProjection(shortcutRepo, sectionRepo),
		Runtime:    runtime,
		Assets:     assetStore,
		Tailscale:  tailscale.NewLookup(cfg.Tailscale),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Dashboard server starting", zap.String("addr", addr))
	if err := server.Listen(addr); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
