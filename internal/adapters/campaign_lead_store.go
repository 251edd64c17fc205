package adapters

import (
	"context"
	"fmt"
	"time"

	campaignports "orderhub_backend/internal/campaigns/ports"
	"orderhub_backend/internal/contacts"
	leadsrepo "orderhub_backend/internal/leads/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// CampaignLeadStore adapts the leads repository to the campaigns LeadStore port.
type CampaignLeadStore struct {
	repo leadsrepo.LeadRepository
	now  func() time.Time
}

// NewCampaignLeadStore creates a new lead store adapter.
func NewCampaignLeadStore(repo leadsrepo.LeadRepository) *CampaignLeadStore {
	return &CampaignLeadStore{repo: repo, now: time.Now}
}

// ListLeads returns the business's leads as raw reconciliation rows.
func (a *CampaignLeadStore) ListLeads(ctx context.Context, businessID uuid.UUID) ([]contacts.Lead, error) {
	rows, err := a.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list leads for reconciliation: %w", err)
	}

	leads := make([]contacts.Lead, 0, len(rows))
	for _, row := range rows {
		lead := contacts.Lead{
			ID:           row.ID,
			PhoneNumber:  row.PhoneNumber,
			CustomerName: row.CustomerName,
			Address:      row.Address,
			ModeratorID:  row.ModeratorID,
			Status:       contacts.LeadStatus(row.Status),
			CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if row.AssignedDate != nil {
			lead.AssignedDate = row.AssignedDate.Format(dateLayout)
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// AssignLeads creates pending leads routed to the moderator for assignedDate.
func (a *CampaignLeadStore) AssignLeads(ctx context.Context, businessID, moderatorID uuid.UUID, assignedDate time.Time, newLeads []contacts.NewLead) (int, error) {
	if len(newLeads) == 0 {
		return 0, nil
	}

	createdAt := a.now().UTC()
	rows := make([]leadsrepo.Lead, 0, len(newLeads))
	for _, nl := range newLeads {
		name := nl.Name
		if name == "" {
			name = contacts.ProspectName
		}
		moderator := moderatorID
		day := assignedDate
		rows = append(rows, leadsrepo.Lead{
			ID:           uuid.New(),
			BusinessID:   businessID,
			PhoneNumber:  nl.Phone,
			CustomerName: name,
			Address:      nl.Address,
			ModeratorID:  &moderator,
			Status:       string(contacts.StatusPending),
			AssignedDate: &day,
			CreatedAt:    createdAt,
		})
	}

	created, err := a.repo.CreateMany(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("create deployed leads: %w", err)
	}
	return created, nil
}

// BulkUpdateLeads reassigns existing leads without touching their status.
func (a *CampaignLeadStore) BulkUpdateLeads(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID, moderatorID uuid.UUID, assignedDate time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return a.repo.BulkAssign(ctx, businessID, ids, moderatorID, assignedDate)
}

var _ campaignports.LeadStore = (*CampaignLeadStore)(nil)
