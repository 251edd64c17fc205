package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type ManualEntryRequest struct {
	// Numbers holds one or more phone numbers separated by newlines or commas.
	Numbers      string     `json:"numbers" validate:"required,max=20000"`
	CustomerName string     `json:"customerName" validate:"max=120"`
	Address      string     `json:"address" validate:"max=300"`
	ModeratorID  *uuid.UUID `json:"moderatorId,omitempty"`
	AssignedDate string     `json:"assignedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ImportOptions arrive as multipart form fields next to the uploaded file.
type ImportOptions struct {
	ModeratorID  string `form:"moderatorId" validate:"omitempty,uuid"`
	AssignedDate string `form:"assignedDate" validate:"omitempty,datetime=2006-01-02"`
}

type BulkAssignRequest struct {
	LeadIDs      []uuid.UUID `json:"leadIds" validate:"required,min=1,max=5000"`
	ModeratorID  uuid.UUID   `json:"moderatorId" validate:"required"`
	AssignedDate string      `json:"assignedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,leadstatus"`
}

type QueueRequest struct {
	Day string `form:"day" validate:"omitempty,oneof=today tomorrow all"`
}

// Response DTOs

type LeadResponse struct {
	ID           uuid.UUID  `json:"id"`
	PhoneNumber  string     `json:"phoneNumber"`
	DialNumber   string     `json:"dialNumber,omitempty"`
	CustomerName string     `json:"customerName"`
	Address      string     `json:"address"`
	ModeratorID  *uuid.UUID `json:"moderatorId,omitempty"`
	Status       string     `json:"status"`
	AssignedDate string     `json:"assignedDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type ImportResponse struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

type BulkAssignResponse struct {
	Updated int64 `json:"updated"`
}

type DeduplicateResponse struct {
	Removed int64 `json:"removed"`
}

type QueueStats struct {
	PendingToday   int `json:"pendingToday"`
	Tomorrow       int `json:"tomorrow"`
	Total          int `json:"total"`
	ConfirmedToday int `json:"confirmedToday"`
}

type QueueResponse struct {
	Day   string         `json:"day"`
	Date  string         `json:"date"`
	Items []LeadResponse `json:"items"`
	Stats QueueStats     `json:"stats"`
}
