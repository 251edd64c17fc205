// Package campaigns provides the contact browsing and campaign building
// bounded context module.
package campaigns

import (
	"context"

	"orderhub_backend/internal/campaigns/handler"
	"orderhub_backend/internal/campaigns/ports"
	"orderhub_backend/internal/campaigns/service"
	"orderhub_backend/internal/contacts"
	"orderhub_backend/internal/events"
	apphttp "orderhub_backend/internal/http"
	"orderhub_backend/platform/config"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the campaigns module over the given ports and subscribes
// cache invalidation to lead and order changes.
func NewModule(leads ports.LeadStore, orders ports.OrderSource, moderators ports.ModeratorDirectory, eventBus events.Bus, val *validator.Validator, cfg config.ClockConfig, log *logger.Logger) (*Module, error) {
	if err := val.RegisterValidation("contactstatus", func(fl playground.FieldLevel) bool {
		status := contacts.LeadStatus(fl.Field().String())
		return status == contacts.StatusAll || status == contacts.StatusUnassigned || status.IsLeadStatus()
	}); err != nil {
		return nil, err
	}

	svc := service.New(leads, orders, moderators, eventBus, cfg.GetBusinessLocation(), log)

	invalidate := func(ctx context.Context, event events.Event) error {
		switch e := event.(type) {
		case events.LeadsChanged:
			svc.Invalidate(ctx, e.BusinessID)
		case events.OrderCreated:
			svc.Invalidate(ctx, e.BusinessID)
		}
		return nil
	}
	eventBus.Subscribe(events.LeadsChanged{}.EventName(), events.HandlerFunc(invalidate))
	eventBus.Subscribe(events.OrderCreated{}.EventName(), events.HandlerFunc(invalidate))

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Service returns the campaigns service for the composition root and the worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts contact and campaign routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

var _ apphttp.Module = (*Module)(nil)
