package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LeadReader reads leads of one business.
type LeadReader interface {
	GetByID(ctx context.Context, businessID, id uuid.UUID) (Lead, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Lead, error)
	ListByModerator(ctx context.Context, businessID, moderatorID uuid.UUID) ([]Lead, error)
}

// LeadWriter persists lead changes. Every method is scoped by business id.
type LeadWriter interface {
	CreateMany(ctx context.Context, leads []Lead) (int, error)
	BulkAssign(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID, moderatorID uuid.UUID, assignedDate time.Time) (int64, error)
	UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status string) error
	Delete(ctx context.Context, businessID, id uuid.UUID) error
	DeleteMany(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// LeadRepository is the full data access surface of the leads module.
type LeadRepository interface {
	LeadReader
	LeadWriter
}

var _ LeadRepository = (*Repository)(nil)
