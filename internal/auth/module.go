// Package auth provides the authentication and staff management bounded context module.
package auth

import (
	"orderhub_backend/internal/auth/adapter"
	"orderhub_backend/internal/auth/handler"
	"orderhub_backend/internal/auth/repository"
	"orderhub_backend/internal/auth/service"
	authvalidator "orderhub_backend/internal/auth/validator"
	apphttp "orderhub_backend/internal/http"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	service   *service.Service
	directory *adapter.ModeratorDirectory
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := authvalidator.Register(val); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler:   handler.New(svc, val),
		service:   svc,
		directory: adapter.NewModeratorDirectory(repo),
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// Moderators returns the directory other modules use to check and reach moderators.
func (m *Module) Moderators() *adapter.ModeratorDirectory {
	return m.directory
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	m.handler.RegisterModeratorRoutes(ctx.Protected.Group("/moderators"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
