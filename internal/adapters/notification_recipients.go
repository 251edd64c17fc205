package adapters

import (
	"context"

	authadapter "orderhub_backend/internal/auth/adapter"
	"orderhub_backend/internal/notification"

	"github.com/google/uuid"
)

// StaffRecipientReader is the auth directory lookup used for notifications.
type StaffRecipientReader interface {
	Recipient(ctx context.Context, businessID, userID uuid.UUID) (authadapter.Recipient, bool, error)
}

// NotificationRecipients adapts the auth moderator directory for notifications.
type NotificationRecipients struct {
	staff StaffRecipientReader
}

// NewNotificationRecipients creates a new recipient reader adapter.
func NewNotificationRecipients(staff StaffRecipientReader) *NotificationRecipients {
	return &NotificationRecipients{staff: staff}
}

// Recipient implements notification.RecipientReader.
func (a *NotificationRecipients) Recipient(ctx context.Context, businessID, userID uuid.UUID) (notification.Recipient, bool, error) {
	rec, found, err := a.staff.Recipient(ctx, businessID, userID)
	if err != nil || !found {
		return notification.Recipient{}, found, err
	}
	return notification.Recipient{Email: rec.Email, Name: rec.Name}, true, nil
}

var (
	_ notification.RecipientReader = (*NotificationRecipients)(nil)
	_ StaffRecipientReader         = (*authadapter.ModeratorDirectory)(nil)
)
