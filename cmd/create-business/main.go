package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"orderhub_backend/internal/auth/password"
	"orderhub_backend/internal/auth/repository"
	authvalidator "orderhub_backend/internal/auth/validator"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/db"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Bootstraps a tenant with its owner account. The password is read from
// OWNER_PASSWORD so it never shows up in shell history.
func main() {
	name := flag.String("name", "", "business name")
	ownerEmail := flag.String("owner-email", "", "owner login email")
	ownerName := flag.String("owner-name", "", "owner display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	if err := validateInput(*name, *ownerEmail, os.Getenv("OWNER_PASSWORD")); err != nil {
		log.Error("invalid input", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	hash, err := password.Hash(os.Getenv("OWNER_PASSWORD"))
	if err != nil {
		log.Error("failed to hash password", "error", err)
		os.Exit(1)
	}

	displayName := sanitize.Text(*ownerName)
	if displayName == "" {
		displayName = sanitize.Text(*name)
	}

	now := time.Now().UTC()
	business := repository.Business{ID: uuid.New(), Name: sanitize.Text(*name), CreatedAt: now}
	owner, err := repository.New(pool).CreateBusinessWithOwner(ctx, business, repository.User{
		ID:           uuid.New(),
		Email:        *ownerEmail,
		Name:         displayName,
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrEmailTaken) {
		log.Error("owner email already registered", "email", *ownerEmail)
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to create business", "error", err)
		os.Exit(1)
	}

	log.Info("business created", "businessId", business.ID, "ownerId", owner.ID, "email", owner.Email)
}

func validateInput(name, email, pw string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("-name is required")
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("-owner-email %q is not an email address", email)
	}
	if !authvalidator.IsStrongPassword(pw) {
		return errors.New(authvalidator.PasswordPolicy)
	}
	return nil
}
