package email

import (
	"context"

	"orderhub_backend/platform/config"
)

// LeadsAssigned describes a batch of calls that landed in a moderator's queue.
type LeadsAssigned struct {
	ModeratorName string
	AssignedDate  string
	Reassigned    int
	Created       int
}

// Total is the number of leads in the batch.
func (l LeadsAssigned) Total() int {
	return l.Reassigned + l.Created
}

type Sender interface {
	SendLeadsAssignedEmail(ctx context.Context, toEmail string, data LeadsAssigned) error
}

type NoopSender struct{}

func (NoopSender) SendLeadsAssignedEmail(ctx context.Context, toEmail string, data LeadsAssigned) error {
	return nil
}

// New returns an SMTP sender when SMTP is configured, otherwise a no-op sender.
func New(cfg config.SMTPConfig) Sender {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetSMTPFromAddress(),
		cfg.GetSMTPFromName(),
	)
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
