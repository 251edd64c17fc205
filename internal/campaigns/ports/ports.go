// Package ports defines what the campaigns module needs from other modules.
// Adapters in internal/adapters implement these over the leads and orders
// repositories, the auth users and the shared infrastructure.
package ports

import (
	"context"
	"io"
	"time"

	"orderhub_backend/internal/contacts"

	"github.com/google/uuid"
)

// LeadStore reads leads and applies campaign assignments.
type LeadStore interface {
	ListLeads(ctx context.Context, businessID uuid.UUID) ([]contacts.Lead, error)
	// AssignLeads creates pending leads already routed to the moderator.
	AssignLeads(ctx context.Context, businessID, moderatorID uuid.UUID, assignedDate time.Time, leads []contacts.NewLead) (int, error)
	// BulkUpdateLeads moves existing leads to the moderator without touching their status.
	BulkUpdateLeads(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID, moderatorID uuid.UUID, assignedDate time.Time) (int64, error)
}

// OrderSource reads the orders that feed reconciliation.
type OrderSource interface {
	ListOrders(ctx context.Context, businessID uuid.UUID) ([]contacts.Order, error)
}

// ModeratorDirectory answers whether a user can receive leads in a business.
type ModeratorDirectory interface {
	IsActiveModerator(ctx context.Context, businessID, userID uuid.UUID) (bool, error)
}

// ContactCache stores reconciled contacts per business. A miss is reported
// with found == false and a nil error.
type ContactCache interface {
	Get(ctx context.Context, businessID uuid.UUID) (list []contacts.Contact, found bool, err error)
	Set(ctx context.Context, businessID uuid.UUID, list []contacts.Contact) error
	Invalidate(ctx context.Context, businessID uuid.UUID) error
}

// ExportStore keeps generated worklists and hands out download links.
type ExportStore interface {
	Save(ctx context.Context, businessID uuid.UUID, fileName, contentType string, r io.Reader, size int64) (fileKey string, err error)
	DownloadURL(ctx context.Context, fileKey string) (url string, expiresAt time.Time, err error)
	Discard(ctx context.Context, fileKey string) error
}

// DeployJob is a deployment to run in the background.
type DeployJob struct {
	BusinessID   uuid.UUID
	ModeratorID  uuid.UUID
	AssignedByID uuid.UUID
	AssignedDate string
	Phones       []string
}

// DeployQueue hands deployments to the background worker.
type DeployQueue interface {
	EnqueueDeploy(ctx context.Context, job DeployJob) error
}
