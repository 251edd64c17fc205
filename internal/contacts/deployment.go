package contacts

import "github.com/google/uuid"

// NewLead is the identity needed to create a lead for a contact that has none.
type NewLead struct {
	Phone   string
	Name    string
	Address string
}

// DeploymentPlan splits a selection into leads to reassign and leads to create.
type DeploymentPlan struct {
	ExistingLeadIDs []uuid.UUID
	NewLeads        []NewLead
	// Missing lists selected phones no longer present in the contact set.
	Missing []string
}

// Total is the number of contacts the plan touches.
func (p DeploymentPlan) Total() int {
	return len(p.ExistingLeadIDs) + len(p.NewLeads)
}

// PlanDeployment resolves selected phones against reconciled contacts.
// Contacts that came from a lead are reassigned by id; order-only contacts
// become new leads seeded from their best-known name and address.
func PlanDeployment(list []Contact, selected []string) DeploymentPlan {
	byPhone := make(map[string]Contact, len(list))
	for _, c := range list {
		byPhone[c.Phone] = c
	}

	plan := DeploymentPlan{
		ExistingLeadIDs: []uuid.UUID{},
		NewLeads:        []NewLead{},
		Missing:         []string{},
	}
	seen := make(map[string]struct{}, len(selected))
	for _, p := range selected {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		contact, ok := byPhone[p]
		if !ok {
			plan.Missing = append(plan.Missing, p)
			continue
		}
		if contact.LeadID != nil {
			plan.ExistingLeadIDs = append(plan.ExistingLeadIDs, *contact.LeadID)
			continue
		}
		plan.NewLeads = append(plan.NewLeads, NewLead{
			Phone:   contact.Phone,
			Name:    contact.Name,
			Address: contact.Address,
		})
	}

	return plan
}
