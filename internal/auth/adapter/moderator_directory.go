// Package adapter provides implementations of interfaces that other domains
// define over user data, so they never depend on auth internals.
package adapter

import (
	"context"
	"errors"

	"orderhub_backend/internal/auth/repository"

	"github.com/google/uuid"
)

// Recipient is the contact data of a staff member.
type Recipient struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// ModeratorDirectory answers moderator questions for the leads and campaigns
// modules and resolves notification recipients.
type ModeratorDirectory struct {
	repo repository.UserReader
}

// NewModeratorDirectory creates a directory over the auth user store.
func NewModeratorDirectory(repo repository.UserReader) *ModeratorDirectory {
	return &ModeratorDirectory{repo: repo}
}

// IsActiveModerator reports whether userID is an active moderator of the business.
func (d *ModeratorDirectory) IsActiveModerator(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
	return d.repo.IsActiveModerator(ctx, businessID, userID)
}

// Recipient returns the contact data of a user, found=false when unknown.
func (d *ModeratorDirectory) Recipient(ctx context.Context, businessID, userID uuid.UUID) (Recipient, bool, error) {
	user, err := d.repo.GetUserByID(ctx, businessID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Recipient{}, false, nil
		}
		return Recipient{}, false, err
	}
	name := user.Name
	if name == "" {
		name = user.Email
	}
	return Recipient{ID: user.ID, Email: user.Email, Name: name}, true, nil
}
