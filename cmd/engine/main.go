package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dvor-map/internal/config"
	httpDelivery "github.com/dvor-map/internal/delivery/http"
	"github.com/dvor-map/internal/delivery/http/handler"
	"github.com/dvor-map/internal/domain/repository"
	"github.com/dvor-map/internal/infrastructure/store"
	"github.com/dvor-map/internal/pkg/identity"
	"github.com/dvor-map/internal/pkg/logger"
	"github.com/dvor-map/internal/repository/snapshot"
	"github.com/dvor-map/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Dvor Map engine")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("store_url", cfg.Store.BaseURL),
	)

	// 3. Connect to Redis (session snapshots). The engine works without
	// it, just without instant first paint and warmup throttling.
	redisClient, err := snapshot.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, running without snapshots", zap.Error(err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		log.Info("Redis connected")
	}

	// 4. Initialize Repositories
	storeRepo := store.NewStoreClient(&cfg.Store, log)

	var snapshotRepo repository.SnapshotRepository
	if redisClient != nil {
		snapshotRepo = snapshot.NewSnapshotRepository(redisClient, cfg.Snapshot.TTL)
	}

	log.Info("Repositories initialized")

	// 5. Initialize Use Cases
	cache := usecase.NewBuildingCache(storeRepo, snapshotRepo, log, cfg.Store.WarmupInterval)
	tracker := usecase.NewViewportTracker(cache.Refresh, cfg.Map.Debounce, log)
	defer tracker.Stop()

	interaction := usecase.NewInteractionStateMachine(log)
	panel := usecase.NewSidePanel(cache, log)
	clusterer := usecase.NewClusterRenderer(cfg.Map.ClusterRadiusPx)

	surface := usecase.NewMapSurface(
		cache,
		tracker,
		interaction,
		panel,
		clusterer,
		cfg.Map.CenterLat,
		cfg.Map.CenterLng,
		cfg.Map.Zoom,
		log,
	)

	identityProvider := identity.NewProvider(snapshotRepo, log)
	board := usecase.NewHelpBoard(storeRepo, identityProvider, log)

	log.Info("Use cases initialized")

	// 6. Seed the cache and schedule the first load
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 5*time.Second)
	cache.Bootstrap(bootCtx)
	bootCancel()
	tracker.Kick()

	// 7. Initialize HTTP Handlers
	mapHandler := handler.NewMapHandler(surface, log)
	panelHandler := handler.NewPanelHandler(panel, log)
	helpHandler := handler.NewHelpHandler(board, log)

	log.Info("HTTP handlers initialized")

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		mapHandler,
		panelHandler,
		helpHandler,
	)

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
