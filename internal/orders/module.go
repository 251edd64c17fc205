// Package orders provides the order management bounded context module.
package orders

import (
	"orderhub_backend/internal/courier"
	"orderhub_backend/internal/events"
	apphttp "orderhub_backend/internal/http"
	"orderhub_backend/internal/orders/handler"
	"orderhub_backend/internal/orders/repository"
	"orderhub_backend/internal/orders/service"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates the orders module. courierClient may be disabled; booking
// then fails with a client error.
func NewModule(pool *pgxpool.Pool, courierClient *courier.Client, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := val.RegisterValidation("orderstatus", func(fl playground.FieldLevel) bool {
		return service.IsStatus(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, courierClient, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Repository exposes order storage to adapters of other modules.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts order routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/orders"))
}

var _ apphttp.Module = (*Module)(nil)
