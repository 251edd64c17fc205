// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"orderhub_backend/internal/contacts"
	"orderhub_backend/internal/events"
	apphttp "orderhub_backend/internal/http"
	"orderhub_backend/internal/leads/handler"
	"orderhub_backend/internal/leads/ports"
	"orderhub_backend/internal/leads/repository"
	"orderhub_backend/internal/leads/service"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, moderators ports.ModeratorDirectory, eventBus events.Bus, val *validator.Validator, cfg config.ClockConfig, log *logger.Logger) (*Module, error) {
	if err := val.RegisterValidation("leadstatus", func(fl playground.FieldLevel) bool {
		return contacts.LeadStatus(fl.Field().String()).IsLeadStatus()
	}); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, moderators, eventBus, cfg.GetBusinessLocation(), log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes lead storage to adapters of other modules.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
