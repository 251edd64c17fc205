package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderhub_backend/internal/adapters"
	authadapter "orderhub_backend/internal/auth/adapter"
	authrepo "orderhub_backend/internal/auth/repository"
	"orderhub_backend/internal/campaigns/cache"
	campaignsvc "orderhub_backend/internal/campaigns/service"
	"orderhub_backend/internal/email"
	"orderhub_backend/internal/events"
	leadrepo "orderhub_backend/internal/leads/repository"
	"orderhub_backend/internal/notification"
	orderrepo "orderhub_backend/internal/orders/repository"
	"orderhub_backend/internal/scheduler"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/db"
	"orderhub_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	moderators := authadapter.NewModeratorDirectory(authrepo.New(pool))

	notificationModule := notification.New(email.New(cfg), adapters.NewNotificationRecipients(moderators), log)
	notificationModule.RegisterHandlers(eventBus)

	// Worker-side deploy wiring (no HTTP handlers required).
	campaigns := campaignsvc.New(
		adapters.NewCampaignLeadStore(leadrepo.New(pool)),
		adapters.NewCampaignOrderSource(orderrepo.New(pool)),
		moderators,
		eventBus,
		cfg.GetBusinessLocation(),
		log,
	)

	// Deploys drop the API's cached contacts through the shared Redis cache.
	if cfg.IsCacheEnabled() {
		contactCache, err := cache.Dial(ctx, cfg.GetRedisURL(), cfg.GetContactsCacheTTL())
		if err != nil {
			log.Warn("contact cache unavailable; deploys will not invalidate it", "error", err)
		} else {
			defer func() { _ = contactCache.Close() }()
			campaigns.SetCache(contactCache)
		}
	}

	worker, err := scheduler.NewWorker(cfg, adapters.NewCampaignDeployRunner(campaigns, log), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
