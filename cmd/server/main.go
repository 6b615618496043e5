package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/application/notify"
	syncapp "github.com/shipsync/backend/internal/application/sync"
	"github.com/shipsync/backend/internal/infrastructure/config"
	"github.com/shipsync/backend/internal/infrastructure/connect"
	"github.com/shipsync/backend/internal/infrastructure/dispatch"
	"github.com/shipsync/backend/internal/infrastructure/logger"
	"github.com/shipsync/backend/internal/infrastructure/persistence"
	"github.com/shipsync/backend/internal/infrastructure/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.NewFromSettings(cfg.App.Env, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting sync engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("database", cfg.Database.Path),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	trackingEventRepo := persistence.NewGormTrackingEventRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Close out runs abandoned by a previous process before scheduling
	// anything new
	recovered, err := syncapp.RecoverStaleRuns(ctx, syncRunRepo, cfg.Sync.StaleRunThreshold, log)
	if err != nil {
		log.Fatal("Failed to recover stale sync runs", zap.Error(err))
	}
	if recovered > 0 {
		log.Info("Recovered stale sync runs", zap.Int("count", recovered))
	}

	// Marketplace and carrier clients register here as they come online.
	// An empty registry is valid; the trigger simply has no platforms to
	// schedule.
	registry := connect.NewClientRegistry()

	// Initialize notification pipeline
	notifier := notify.NewTransitionNotifier(
		notificationRepo,
		dispatch.NewLogDispatcher(log),
		cfg.Notify.Cooldown,
		log,
	)

	// Initialize application services
	ingestService := syncapp.NewIngestService(registry, orderRepo, syncRunRepo, log)
	trackingService := syncapp.NewTrackingService(
		registry.Carriers(),
		shipmentRepo,
		trackingEventRepo,
		orderRepo,
		syncRunRepo,
		notifier,
		log,
	)

	if !cfg.Sync.Enabled {
		log.Info("Sync scheduling disabled, exiting")
		return
	}

	// Initialize scheduler and trigger
	syncScheduler, err := scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
		MaxConcurrentJobs: cfg.Sync.MaxConcurrentJobs,
		JobTimeout:        cfg.Sync.JobTimeout,
	}, scheduler.NewSyncJobExecutor(ingestService, trackingService), log)
	if err != nil {
		log.Fatal("Failed to create sync scheduler", zap.Error(err))
	}
	if err := syncScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start sync scheduler", zap.Error(err))
	}

	triggerCfg := scheduler.DefaultSyncTriggerConfig()
	triggerCfg.OrderInterval = cfg.Sync.OrderInterval
	triggerCfg.TrackingInterval = cfg.Sync.TrackingInterval
	triggerCfg.InitialLookback = cfg.Sync.InitialLookback
	triggerCfg.Overlap = cfg.Sync.Overlap

	trigger := scheduler.NewSyncTrigger(triggerCfg, syncScheduler, syncRunRepo, registry.Platforms(), log)
	if err := trigger.Start(ctx); err != nil {
		log.Fatal("Failed to start sync trigger", zap.Error(err))
	}

	log.Info("Sync engine running",
		zap.Int("platforms", len(registry.Platforms())),
		zap.Duration("order_interval", cfg.Sync.OrderInterval),
		zap.Duration("tracking_interval", cfg.Sync.TrackingInterval),
	)

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := trigger.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping sync trigger", zap.Error(err))
	}
	if err := syncScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping sync scheduler", zap.Error(err))
	}

	log.Info("Sync engine stopped")
}
