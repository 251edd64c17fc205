package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderhub_backend/internal/adapters"
	"orderhub_backend/internal/adapters/storage"
	"orderhub_backend/internal/auth"
	"orderhub_backend/internal/campaigns"
	"orderhub_backend/internal/campaigns/cache"
	"orderhub_backend/internal/courier"
	"orderhub_backend/internal/email"
	"orderhub_backend/internal/events"
	apphttp "orderhub_backend/internal/http"
	"orderhub_backend/internal/http/router"
	"orderhub_backend/internal/leads"
	"orderhub_backend/internal/notification"
	"orderhub_backend/internal/orders"
	"orderhub_backend/internal/scheduler"
	"orderhub_backend/migrations"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/db"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func mustInit(log *logger.Logger, name string, err error) {
	if err != nil {
		log.Error("failed to initialize "+name+" module", "error", err)
		panic("failed to initialize " + name + " module: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule, err := auth.NewModule(pool, cfg, val, log)
	mustInit(log, "auth", err)
	moderators := authModule.Moderators()

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(email.New(cfg), adapters.NewNotificationRecipients(moderators), log)
	notificationModule.RegisterHandlers(eventBus)
	if !cfg.IsSMTPEnabled() {
		log.Warn("SMTP not configured; assignment emails disabled")
	}

	leadsModule, err := leads.NewModule(pool, moderators, eventBus, val, cfg, log)
	mustInit(log, "leads", err)

	courierClient := courier.New(cfg, log)
	if !courierClient.Enabled() {
		log.Warn("courier not configured; orders will not be booked for delivery")
	}
	ordersModule, err := orders.NewModule(pool, courierClient, eventBus, val, log)
	mustInit(log, "orders", err)

	campaignsModule, err := campaigns.NewModule(
		adapters.NewCampaignLeadStore(leadsModule.Repository()),
		adapters.NewCampaignOrderSource(ordersModule.Repository()),
		moderators,
		eventBus,
		val,
		cfg,
		log,
	)
	mustInit(log, "campaigns", err)
	campaignSvc := campaignsModule.Service()

	if contactCache, closeCache := initContactCache(ctx, cfg, log); contactCache != nil {
		defer closeCache()
		campaignSvc.SetCache(contactCache)
	}

	if exportStore := initExportStore(ctx, cfg, log); exportStore != nil {
		campaignSvc.SetExportStore(exportStore)
	}

	if deployQueue, closeQueue := initDeployQueue(cfg, log); deployQueue != nil {
		defer closeQueue()
		campaignSvc.SetDeployQueue(deployQueue)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			ordersModule,
			campaignsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initContactCache dials the Redis cache for reconciled contacts. Without it
// every request reconciles from the database.
func initContactCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (*cache.RedisCache, func()) {
	if !cfg.IsCacheEnabled() {
		log.Warn("contact cache disabled")
		return nil, nil
	}

	contactCache, err := cache.Dial(ctx, cfg.GetRedisURL(), cfg.GetContactsCacheTTL())
	if err != nil {
		log.Warn("contact cache unavailable; reconciling on every request", "error", err)
		return nil, nil
	}

	log.Info("contact cache enabled", "ttl", cfg.GetContactsCacheTTL())
	return contactCache, func() {
		_ = contactCache.Close()
	}
}

func initExportStore(ctx context.Context, cfg config.MinIOConfig, log *logger.Logger) *adapters.ExportStore {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; worklist exports disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	ensureBucket(ctx, log, storageSvc, "exports", cfg.GetMinioBucketExports())
	log.Info("storage service initialized", "exportsBucket", cfg.GetMinioBucketExports())

	return adapters.NewExportStore(storageSvc, cfg.GetMinioBucketExports(), cfg.GetExportURLTTL())
}

func initDeployQueue(cfg config.SchedulerConfig, log *logger.Logger) (*adapters.CampaignDeployQueue, func()) {
	if !cfg.IsSchedulerEnabled() {
		log.Warn("scheduler not configured; campaign deploys run inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	log.Info("campaign deploys queued to scheduler", "queue", cfg.GetAsynqQueueName())
	return adapters.NewCampaignDeployQueue(client), func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
