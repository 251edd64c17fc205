package repository

import (
	"context"

	"github.com/google/uuid"
)

// UserReader is the read side other modules consume through adapters.
type UserReader interface {
	GetUserByID(ctx context.Context, businessID, userID uuid.UUID) (User, error)
	IsActiveModerator(ctx context.Context, businessID, userID uuid.UUID) (bool, error)
}

// UserRepository defines the user operations of the auth service.
type UserRepository interface {
	UserReader
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListModerators(ctx context.Context, businessID uuid.UUID) ([]User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	SetActive(ctx context.Context, businessID, userID uuid.UUID, active bool) (User, error)
}

var _ UserRepository = (*Repository)(nil)
