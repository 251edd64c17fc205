// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"orderhub_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadsChanged is published after any write to a business's leads.
type LeadsChanged struct {
	BaseEvent
	BusinessID uuid.UUID `json:"businessId"`
	Reason     string    `json:"reason"` // "import", "manual", "status", "delete", "deduplicate", "assign"
	Count      int       `json:"count"`
}

func (e LeadsChanged) EventName() string { return "leads.changed" }

// LeadsAssigned is published when a batch of leads lands in a moderator's queue.
type LeadsAssigned struct {
	BaseEvent
	BusinessID   uuid.UUID `json:"businessId"`
	ModeratorID  uuid.UUID `json:"moderatorId"`
	AssignedByID uuid.UUID `json:"assignedById"`
	AssignedDate string    `json:"assignedDate"`
	Reassigned   int       `json:"reassigned"`
	Created      int       `json:"created"`
}

func (e LeadsAssigned) EventName() string { return "leads.assigned" }

// =============================================================================
// Orders Domain Events
// =============================================================================

// OrderCreated is published when an order is placed.
type OrderCreated struct {
	BaseEvent
	BusinessID    uuid.UUID  `json:"businessId"`
	OrderID       uuid.UUID  `json:"orderId"`
	ModeratorID   *uuid.UUID `json:"moderatorId,omitempty"`
	CustomerPhone string     `json:"customerPhone"`
	GrandTotal    float64    `json:"grandTotal"`
}

func (e OrderCreated) EventName() string { return "orders.created" }

// OrderStatusChanged is published when an order moves through fulfilment.
type OrderStatusChanged struct {
	BaseEvent
	BusinessID uuid.UUID `json:"businessId"`
	OrderID    uuid.UUID `json:"orderId"`
	OldStatus  string    `json:"oldStatus"`
	NewStatus  string    `json:"newStatus"`
}

func (e OrderStatusChanged) EventName() string { return "orders.status_changed" }
