// Package contacts unifies phone-keyed leads and orders into one contact view
// and provides the filtering, sorting and selection used to build calling
// campaigns. Everything here is pure: callers supply the rows and "now".
package contacts

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the call outcome recorded on a lead.
type LeadStatus string

const (
	StatusPending       LeadStatus = "pending"
	StatusConfirmed     LeadStatus = "confirmed"
	StatusCommunication LeadStatus = "communication"
	StatusNoResponse    LeadStatus = "no-response"

	// StatusUnassigned marks a contact known only from orders. It is never stored on a lead.
	StatusUnassigned LeadStatus = "unassigned"
)

// ProspectName is the placeholder name for contacts with no known identity.
const ProspectName = "Prospect"

// IsLeadStatus reports whether s can be stored on a lead row.
func (s LeadStatus) IsLeadStatus() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCommunication, StatusNoResponse:
		return true
	default:
		return false
	}
}

// Lead is a prospective-customer row as read from storage.
// PhoneNumber and CreatedAt are raw, unnormalized values.
type Lead struct {
	ID           uuid.UUID
	PhoneNumber  string
	CustomerName string
	Address      string
	ModeratorID  *uuid.UUID
	Status       LeadStatus
	AssignedDate string
	CreatedAt    string
}

// Order is a confirmed transaction row as read from storage.
type Order struct {
	ID              uuid.UUID
	CustomerPhone   string
	CustomerName    string
	CustomerAddress string
	TotalAmount     float64
	CreatedAt       string
	ModeratorID     uuid.UUID
}

// Contact is the derived view of zero-or-one lead and zero-or-more orders
// sharing a normalized phone key.
type Contact struct {
	Phone          string     `json:"phone"`
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	LeadID         *uuid.UUID `json:"leadId"`
	LastCallDate   *time.Time `json:"lastCallDate"`
	DaysSinceCall  *int       `json:"daysSinceCall"`
	LastOrderDate  *time.Time `json:"lastOrderDate"`
	DaysSinceOrder *int       `json:"daysSinceOrder"`
	TotalOrders    int        `json:"totalOrders"`
	TotalSpent     float64    `json:"totalSpent"`
	CurrentStatus  LeadStatus `json:"currentStatus"`
	ModeratorID    *uuid.UUID `json:"moderatorId"`
	LastActivityAt *time.Time `json:"lastActivityAt"`
}

// HasModerator reports whether a staff member owns the contact.
func (c Contact) HasModerator() bool {
	return c.ModeratorID != nil && *c.ModeratorID != uuid.Nil
}

// activityTime is the sort key: last order, else last call, else the epoch.
func (c Contact) activityTime() time.Time {
	if c.LastOrderDate != nil {
		return *c.LastOrderDate
	}
	if c.LastCallDate != nil {
		return *c.LastCallDate
	}
	return time.Unix(0, 0).UTC()
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	cp := *id
	return &cp
}
