package transport

import (
	"time"

	"orderhub_backend/internal/contacts"

	"github.com/google/uuid"
)

// Request DTOs

// ContactsQuery holds the filter shared by contact listing, selection and export.
// Thresholds are pointers so an absent query parameter stays inactive.
type ContactsQuery struct {
	Search            string `form:"search" json:"search" validate:"max=100"`
	Status            string `form:"status" json:"status" validate:"omitempty,contactstatus"`
	MinDaysSinceCall  *int   `form:"minDaysSinceCall" json:"minDaysSinceCall" validate:"omitempty,gte=0"`
	MinDaysSinceOrder *int   `form:"minDaysSinceOrder" json:"minDaysSinceOrder" validate:"omitempty,gte=0"`
	Preset            string `form:"preset" json:"preset" validate:"omitempty,oneof=dormant follow-up fresh"`
}

type CustomersQuery struct {
	Search string `form:"search" validate:"max=100"`
}

type SelectRequest struct {
	ContactsQuery
	From     int      `json:"from"`
	To       int      `json:"to"`
	Selected []string `json:"selected" validate:"max=20000"`
}

type DeployRequest struct {
	Phones       []string  `json:"phones" validate:"required,min=1,max=20000"`
	ModeratorID  uuid.UUID `json:"moderatorId" validate:"required"`
	AssignedDate string    `json:"assignedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type ExportRequest struct {
	ContactsQuery
	// Phones limits the export to a selection; empty exports the whole filtered list.
	Phones []string `json:"phones" validate:"max=20000"`
}

// Response DTOs

type ContactListResponse struct {
	Items []contacts.Contact `json:"items"`
	Total int                `json:"total"`
}

type CustomerListResponse struct {
	Items   []contacts.Customer      `json:"items"`
	Summary contacts.RegistrySummary `json:"summary"`
}

type SelectResponse struct {
	Added    int      `json:"added"`
	Selected []string `json:"selected"`
	Total    int      `json:"total"`
}

type DeployResponse struct {
	Queued     bool     `json:"queued"`
	Reassigned int64    `json:"reassigned"`
	Created    int      `json:"created"`
	Missing    []string `json:"missing"`
}

type ExportResponse struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expiresAt"`
}
