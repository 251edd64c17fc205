package main

import (
	"context"
	"flag"

	authadapter "orderhub_backend/internal/auth/adapter"
	authrepo "orderhub_backend/internal/auth/repository"
	"orderhub_backend/internal/events"
	leadrepo "orderhub_backend/internal/leads/repository"
	leadservice "orderhub_backend/internal/leads/service"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/db"
	"orderhub_backend/platform/logger"

	"github.com/google/uuid"
)

func main() {
	only := flag.String("business", "", "limit the run to one business id")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead dedupe")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	users := authrepo.New(pool)
	leads := leadservice.New(
		leadrepo.New(pool),
		authadapter.NewModeratorDirectory(users),
		events.NewInMemoryBus(log),
		cfg.GetBusinessLocation(),
		log,
	)

	var businessIDs []uuid.UUID
	if *only != "" {
		id, err := uuid.Parse(*only)
		if err != nil {
			log.Error("invalid business id", "value", *only)
			return
		}
		businessIDs = []uuid.UUID{id}
	} else {
		businessIDs, err = users.ListBusinessIDs(ctx)
		if err != nil {
			log.Error("failed to list businesses", "error", err)
			return
		}
	}

	var total int64
	for _, businessID := range businessIDs {
		resp, err := leads.Deduplicate(ctx, businessID)
		if err != nil {
			log.Error("dedupe failed", "businessId", businessID, "error", err)
			continue
		}
		if resp.Removed > 0 {
			log.Info("duplicates removed", "businessId", businessID, "removed", resp.Removed)
		}
		total += resp.Removed
	}

	log.Info("lead dedupe complete", "businesses", len(businessIDs), "removed", total)
}
