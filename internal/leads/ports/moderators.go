// Package ports defines what the leads module needs from other modules.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// ModeratorDirectory answers whether a user can receive leads in a business.
type ModeratorDirectory interface {
	IsActiveModerator(ctx context.Context, businessID, userID uuid.UUID) (bool, error)
}
