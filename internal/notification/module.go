// Package notification provides event handlers for sending notifications
// in response to domain events, so domain modules never need to know about
// email providers or templates.
package notification

import (
	"context"

	"orderhub_backend/internal/email"
	"orderhub_backend/internal/events"
	"orderhub_backend/platform/logger"

	"github.com/google/uuid"
)

// Recipient is the contact data of a staff member.
type Recipient struct {
	Email string
	Name  string
}

// RecipientReader resolves staff members of a business, found=false when unknown.
type RecipientReader interface {
	Recipient(ctx context.Context, businessID, userID uuid.UUID) (Recipient, bool, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender     email.Sender
	recipients RecipientReader
	log        *logger.Logger
}

func New(sender email.Sender, recipients RecipientReader, log *logger.Logger) *Module {
	return &Module{sender: sender, recipients: recipients, log: log}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadsAssigned{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadsAssigned:
		return m.handleLeadsAssigned(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleLeadsAssigned(ctx context.Context, e events.LeadsAssigned) error {
	if e.Reassigned+e.Created == 0 {
		return nil
	}

	recipient, found, err := m.recipients.Recipient(ctx, e.BusinessID, e.ModeratorID)
	if err != nil {
		m.log.Error("failed to resolve moderator for assignment email",
			"moderatorId", e.ModeratorID,
			"error", err,
		)
		return err
	}
	if !found || recipient.Email == "" {
		m.log.Warn("skipping assignment email, moderator has no address", "moderatorId", e.ModeratorID)
		return nil
	}

	err = m.sender.SendLeadsAssignedEmail(ctx, recipient.Email, email.LeadsAssigned{
		ModeratorName: recipient.Name,
		AssignedDate:  e.AssignedDate,
		Reassigned:    e.Reassigned,
		Created:       e.Created,
	})
	if err != nil {
		m.log.Error("failed to send assignment email",
			"moderatorId", e.ModeratorID,
			"email", recipient.Email,
			"error", err,
		)
		return err
	}
	m.log.Info("assignment email sent", "moderatorId", e.ModeratorID, "email", recipient.Email)
	return nil
}

var _ events.Handler = (*Module)(nil)
