// Package service holds the lead workflows: imports, assignment, call
// outcomes, deduplication and the moderator calling queue.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"orderhub_backend/internal/contacts"
	"orderhub_backend/internal/events"
	"orderhub_backend/internal/leads/ports"
	"orderhub_backend/internal/leads/repository"
	"orderhub_backend/internal/leads/transport"
	"orderhub_backend/platform/apperr"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/phone"
	"orderhub_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	// minImportDigits is the shortest normalized phone accepted by imports.
	minImportDigits = 11
	// minManualLength drops obviously truncated manual entries before normalizing.
	minManualLength = 10

	maxNameLength    = 120
	maxAddressLength = 300

	dateLayout = "2006-01-02"
)

var manualSeparators = regexp.MustCompile(`[\n,]`)

// Actor is the authenticated user a workflow runs for.
type Actor struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	IsOwner    bool
}

// Assignment optionally routes new leads to a moderator's queue.
type Assignment struct {
	ModeratorID  *uuid.UUID
	AssignedDate string
}

// Service implements the lead workflows.
type Service struct {
	repo       repository.LeadRepository
	moderators ports.ModeratorDirectory
	eventBus   events.Bus
	loc        *time.Location
	log        *logger.Logger
	now        func() time.Time
}

// New creates the lead service. loc defines the business day.
func New(repo repository.LeadRepository, moderators ports.ModeratorDirectory, eventBus events.Bus, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:       repo,
		moderators: moderators,
		eventBus:   eventBus,
		loc:        loc,
		log:        log,
		now:        time.Now,
	}
}

// List returns all leads of the business, newest first.
func (s *Service) List(ctx context.Context, businessID uuid.UUID) (transport.LeadListResponse, error) {
	leads, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return transport.LeadListResponse{}, apperr.Unavailable("could not load leads", err)
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// ManualEntry imports phone numbers typed or pasted by the owner. Numbers are
// split on newlines and commas and share one name and address.
func (s *Service) ManualEntry(ctx context.Context, actor Actor, req transport.ManualEntryRequest) (transport.ImportResponse, error) {
	sheet := Sheet{Header: []string{"Phone", "Name", "Address"}}
	for _, number := range manualSeparators.Split(req.Numbers, -1) {
		number = strings.TrimSpace(number)
		if len(number) < minManualLength {
			continue
		}
		sheet.Rows = append(sheet.Rows, []string{number, req.CustomerName, req.Address})
	}
	if len(sheet.Rows) == 0 {
		return transport.ImportResponse{}, apperr.Validation("no phone numbers with at least 10 characters")
	}

	return s.Import(ctx, actor, sheet, Assignment{ModeratorID: req.ModeratorID, AssignedDate: req.AssignedDate})
}

// Import creates pending leads from sheet rows. Rows whose phone normalizes to
// fewer than 11 digits are counted invalid. Phones already present in the
// business or earlier in the same sheet are counted as duplicates.
func (s *Service) Import(ctx context.Context, actor Actor, sheet Sheet, assign Assignment) (transport.ImportResponse, error) {
	cols := sheet.detectColumns()
	if cols.phone < 0 {
		return transport.ImportResponse{}, apperr.Validation("no phone column found").
			WithDetails(map[string]any{"header": sheet.Header})
	}

	moderatorID, assignedDate, err := s.resolveAssignment(ctx, actor.BusinessID, assign)
	if err != nil {
		return transport.ImportResponse{}, err
	}

	existing, err := s.repo.ListByBusiness(ctx, actor.BusinessID)
	if err != nil {
		return transport.ImportResponse{}, apperr.Unavailable("could not load existing leads", err)
	}
	known := make(map[string]struct{}, len(existing)+len(sheet.Rows))
	for _, lead := range existing {
		known[phone.Normalize(lead.PhoneNumber)] = struct{}{}
	}

	var result transport.ImportResponse
	createdAt := s.now().UTC()
	batch := make([]repository.Lead, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		number := phone.Normalize(cell(row, cols.phone))
		if len(number) < minImportDigits {
			result.Invalid++
			continue
		}
		if _, dup := known[number]; dup {
			result.Duplicates++
			continue
		}
		known[number] = struct{}{}

		name := sanitize.Limit(sanitize.Text(cell(row, cols.name)), maxNameLength)
		if name == "" {
			name = contacts.ProspectName
		}
		batch = append(batch, repository.Lead{
			ID:           uuid.New(),
			BusinessID:   actor.BusinessID,
			PhoneNumber:  number,
			CustomerName: name,
			Address:      sanitize.Limit(sanitize.Text(cell(row, cols.address)), maxAddressLength),
			ModeratorID:  moderatorID,
			Status:       string(contacts.StatusPending),
			AssignedDate: assignedDate,
			CreatedAt:    createdAt,
		})
	}

	if len(batch) == 0 {
		return result, nil
	}

	written, err := s.repo.CreateMany(ctx, batch)
	if err != nil {
		return transport.ImportResponse{}, apperr.Unavailable("could not save leads", err)
	}
	result.Imported = written

	s.log.WithContext(ctx).Info("leads imported",
		"imported", result.Imported, "duplicates", result.Duplicates, "invalid", result.Invalid)
	s.publishChanged(ctx, actor.BusinessID, "import", written)
	if moderatorID != nil {
		s.eventBus.Publish(ctx, events.LeadsAssigned{
			BaseEvent:    events.NewBaseEvent(),
			BusinessID:   actor.BusinessID,
			ModeratorID:  *moderatorID,
			AssignedByID: actor.UserID,
			AssignedDate: assignedDate.Format(dateLayout),
			Created:      written,
		})
	}

	return result, nil
}

// BulkAssign moves existing leads into a moderator's queue.
func (s *Service) BulkAssign(ctx context.Context, actor Actor, req transport.BulkAssignRequest) (transport.BulkAssignResponse, error) {
	moderatorID := req.ModeratorID
	_, assignedDate, err := s.resolveAssignment(ctx, actor.BusinessID, Assignment{
		ModeratorID:  &moderatorID,
		AssignedDate: req.AssignedDate,
	})
	if err != nil {
		return transport.BulkAssignResponse{}, err
	}

	updated, err := s.repo.BulkAssign(ctx, actor.BusinessID, req.LeadIDs, moderatorID, *assignedDate)
	if err != nil {
		return transport.BulkAssignResponse{}, apperr.Unavailable("could not assign leads", err)
	}

	s.publishChanged(ctx, actor.BusinessID, "assign", int(updated))
	s.eventBus.Publish(ctx, events.LeadsAssigned{
		BaseEvent:    events.NewBaseEvent(),
		BusinessID:   actor.BusinessID,
		ModeratorID:  moderatorID,
		AssignedByID: actor.UserID,
		AssignedDate: assignedDate.Format(dateLayout),
		Reassigned:   int(updated),
	})

	return transport.BulkAssignResponse{Updated: updated}, nil
}

// UpdateStatus records a call outcome. Moderators may only update their own leads.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, status contacts.LeadStatus) (transport.LeadResponse, error) {
	if !status.IsLeadStatus() {
		return transport.LeadResponse{}, apperr.Validation("invalid lead status")
	}

	lead, err := s.repo.GetByID(ctx, actor.BusinessID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.LeadResponse{}, apperr.Unavailable("could not load lead", err)
	}

	if !actor.IsOwner && (lead.ModeratorID == nil || *lead.ModeratorID != actor.UserID) {
		return transport.LeadResponse{}, apperr.Forbidden("lead is not assigned to you")
	}

	if err := s.repo.UpdateStatus(ctx, actor.BusinessID, id, string(status)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("could not update lead", err)
	}

	lead.Status = string(status)
	s.publishChanged(ctx, actor.BusinessID, "status", 1)
	return toLeadResponse(lead), nil
}

// Delete removes one lead.
func (s *Service) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, businessID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return apperr.Unavailable("could not delete lead", err)
	}

	s.publishChanged(ctx, businessID, "delete", 1)
	return nil
}

// Deduplicate keeps the earliest created lead per normalized phone and
// deletes the others. Leads whose phone is not usable are left alone.
func (s *Service) Deduplicate(ctx context.Context, businessID uuid.UUID) (transport.DeduplicateResponse, error) {
	leads, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return transport.DeduplicateResponse{}, apperr.Unavailable("could not load leads", err)
	}

	redundant := duplicateLeadIDs(leads)
	if len(redundant) == 0 {
		return transport.DeduplicateResponse{}, nil
	}

	removed, err := s.repo.DeleteMany(ctx, businessID, redundant)
	if err != nil {
		return transport.DeduplicateResponse{}, apperr.Unavailable("could not delete duplicate leads", err)
	}

	s.log.WithContext(ctx).Info("duplicate leads removed", "removed", removed)
	s.publishChanged(ctx, businessID, "deduplicate", int(removed))
	return transport.DeduplicateResponse{Removed: removed}, nil
}

func duplicateLeadIDs(leads []repository.Lead) []uuid.UUID {
	keepers := make(map[string]int, len(leads))
	for i, lead := range leads {
		key := phone.Normalize(lead.PhoneNumber)
		if !phone.IsUsable(key) {
			continue
		}
		current, seen := keepers[key]
		if !seen || lead.CreatedAt.Before(leads[current].CreatedAt) {
			keepers[key] = i
		}
	}

	redundant := make([]uuid.UUID, 0)
	for i, lead := range leads {
		key := phone.Normalize(lead.PhoneNumber)
		if keep, ok := keepers[key]; ok && keep != i {
			redundant = append(redundant, lead.ID)
		}
	}
	return redundant
}

// resolveAssignment validates the moderator and resolves the assigned day,
// defaulting to today in the business timezone. Without a moderator both
// results are nil.
func (s *Service) resolveAssignment(ctx context.Context, businessID uuid.UUID, assign Assignment) (*uuid.UUID, *time.Time, error) {
	if assign.ModeratorID == nil || *assign.ModeratorID == uuid.Nil {
		return nil, nil, nil
	}

	active, err := s.moderators.IsActiveModerator(ctx, businessID, *assign.ModeratorID)
	if err != nil {
		return nil, nil, apperr.Unavailable("could not verify moderator", err)
	}
	if !active {
		return nil, nil, apperr.Validation("moderator not found or inactive")
	}

	day, err := s.parseDay(assign.AssignedDate)
	if err != nil {
		return nil, nil, err
	}

	moderatorID := *assign.ModeratorID
	return &moderatorID, &day, nil
}

func (s *Service) parseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.today(), nil
	}
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation("assignedDate must be YYYY-MM-DD")
	}
	return day, nil
}

// today is the current business day as a UTC midnight date value.
func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) publishChanged(ctx context.Context, businessID uuid.UUID, reason string, count int) {
	s.eventBus.Publish(ctx, events.LeadsChanged{
		BaseEvent:  events.NewBaseEvent(),
		BusinessID: businessID,
		Reason:     reason,
		Count:      count,
	})
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:           lead.ID,
		PhoneNumber:  lead.PhoneNumber,
		CustomerName: lead.CustomerName,
		Address:      lead.Address,
		ModeratorID:  lead.ModeratorID,
		Status:       lead.Status,
		CreatedAt:    lead.CreatedAt,
	}
	if dial, ok := phone.ToE164(phone.Normalize(lead.PhoneNumber)); ok {
		resp.DialNumber = dial
	}
	if lead.AssignedDate != nil {
		resp.AssignedDate = lead.AssignedDate.Format(dateLayout)
	}
	return resp
}
