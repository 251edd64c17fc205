// Package service composes the contact reconciliation core into the campaign
// workflows: browsing contacts, building a selection, deploying it to a
// moderator and exporting worklists.
package service

import (
	"context"
	"strings"
	"time"

	"orderhub_backend/internal/campaigns/ports"
	"orderhub_backend/internal/campaigns/transport"
	"orderhub_backend/internal/contacts"
	"orderhub_backend/internal/events"
	"orderhub_backend/platform/apperr"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// Actor is the authenticated user a workflow runs for.
type Actor struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
}

type Service struct {
	leads      ports.LeadStore
	orders     ports.OrderSource
	moderators ports.ModeratorDirectory
	eventBus   events.Bus
	loc        *time.Location
	log        *logger.Logger
	now        func() time.Time

	cache   ports.ContactCache
	exports ports.ExportStore
	queue   ports.DeployQueue
}

// New creates the campaigns service. Cache, export storage and the deploy
// queue are optional and attached with their setters.
func New(leads ports.LeadStore, orders ports.OrderSource, moderators ports.ModeratorDirectory, eventBus events.Bus, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		leads:      leads,
		orders:     orders,
		moderators: moderators,
		eventBus:   eventBus,
		loc:        loc,
		log:        log,
		now:        time.Now,
	}
}

func (s *Service) SetCache(cache ports.ContactCache) {
	s.cache = cache
}

func (s *Service) SetExportStore(store ports.ExportStore) {
	s.exports = store
}

func (s *Service) SetDeployQueue(queue ports.DeployQueue) {
	s.queue = queue
}

// Contacts returns the filtered, activity-sorted contact list.
func (s *Service) Contacts(ctx context.Context, businessID uuid.UUID, query transport.ContactsQuery) (transport.ContactListResponse, error) {
	criteria, err := criteriaFrom(query)
	if err != nil {
		return transport.ContactListResponse{}, err
	}

	list, err := s.loadContacts(ctx, businessID)
	if err != nil {
		return transport.ContactListResponse{}, err
	}

	filtered := contacts.Filter(list, criteria)
	return transport.ContactListResponse{Items: filtered, Total: len(filtered)}, nil
}

// Customers returns the lifetime value registry.
func (s *Service) Customers(ctx context.Context, businessID uuid.UUID, search string) (transport.CustomerListResponse, error) {
	list, err := s.loadContacts(ctx, businessID)
	if err != nil {
		return transport.CustomerListResponse{}, err
	}

	items, summary := contacts.Registry(list, search)
	return transport.CustomerListResponse{Items: items, Summary: summary}, nil
}

// Select adds the 1-based range [from, to] of the filtered list to a
// previous selection.
func (s *Service) Select(ctx context.Context, businessID uuid.UUID, req transport.SelectRequest) (transport.SelectResponse, error) {
	criteria, err := criteriaFrom(req.ContactsQuery)
	if err != nil {
		return transport.SelectResponse{}, err
	}

	list, err := s.loadContacts(ctx, businessID)
	if err != nil {
		return transport.SelectResponse{}, err
	}

	selection := contacts.NewSelection(normalizePhones(req.Selected)...)
	added := selection.Add(contacts.SelectRange(contacts.Filter(list, criteria), req.From, req.To)...)

	phones := selection.Phones()
	return transport.SelectResponse{Added: added, Selected: phones, Total: len(phones)}, nil
}

// Deploy routes the selected contacts to a moderator's queue. With a deploy
// queue attached the work is handed to the background worker.
func (s *Service) Deploy(ctx context.Context, actor Actor, req transport.DeployRequest) (transport.DeployResponse, error) {
	active, err := s.moderators.IsActiveModerator(ctx, actor.BusinessID, req.ModeratorID)
	if err != nil {
		return transport.DeployResponse{}, apperr.Unavailable("could not verify moderator", err)
	}
	if !active {
		return transport.DeployResponse{}, apperr.Validation("moderator not found or inactive")
	}

	assignedDate := strings.TrimSpace(req.AssignedDate)
	if assignedDate == "" {
		assignedDate = s.today().Format(dateLayout)
	}

	phones := normalizePhones(req.Phones)
	if len(phones) == 0 {
		return transport.DeployResponse{}, apperr.Validation("no valid phone numbers selected")
	}

	job := ports.DeployJob{
		BusinessID:   actor.BusinessID,
		ModeratorID:  req.ModeratorID,
		AssignedByID: actor.UserID,
		AssignedDate: assignedDate,
		Phones:       phones,
	}

	if s.queue != nil {
		if err := s.queue.EnqueueDeploy(ctx, job); err != nil {
			return transport.DeployResponse{}, apperr.Unavailable("could not queue deployment", err)
		}
		s.log.WithContext(ctx).Info("campaign deployment queued", "phones", len(phones), "moderatorId", req.ModeratorID)
		return transport.DeployResponse{Queued: true, Missing: []string{}}, nil
	}

	return s.ExecuteDeploy(ctx, job)
}

// ExecuteDeploy applies a deployment: contacts with a lead are reassigned,
// order-only contacts become new pending leads. It reconciles from storage,
// never from the cache, and is safe to retry.
func (s *Service) ExecuteDeploy(ctx context.Context, job ports.DeployJob) (transport.DeployResponse, error) {
	assignedDate, err := time.Parse(dateLayout, job.AssignedDate)
	if err != nil {
		return transport.DeployResponse{}, apperr.Validation("assignedDate must be YYYY-MM-DD")
	}

	list, err := s.reconcile(ctx, job.BusinessID)
	if err != nil {
		return transport.DeployResponse{}, err
	}
	plan := contacts.PlanDeployment(list, job.Phones)

	resp := transport.DeployResponse{Missing: plan.Missing}
	if len(plan.ExistingLeadIDs) > 0 {
		resp.Reassigned, err = s.leads.BulkUpdateLeads(ctx, job.BusinessID, plan.ExistingLeadIDs, job.ModeratorID, assignedDate)
		if err != nil {
			return transport.DeployResponse{}, apperr.Unavailable("could not reassign leads", err)
		}
	}
	if len(plan.NewLeads) > 0 {
		resp.Created, err = s.leads.AssignLeads(ctx, job.BusinessID, job.ModeratorID, assignedDate, plan.NewLeads)
		if err != nil {
			return transport.DeployResponse{}, apperr.Unavailable("could not create leads", err)
		}
	}

	s.invalidate(ctx, job.BusinessID)
	s.log.WithContext(ctx).Info("campaign deployed",
		"businessId", job.BusinessID, "moderatorId", job.ModeratorID,
		"reassigned", resp.Reassigned, "created", resp.Created, "missing", len(resp.Missing))

	if plan.Total() > 0 {
		s.eventBus.Publish(ctx, events.LeadsChanged{
			BaseEvent:  events.NewBaseEvent(),
			BusinessID: job.BusinessID,
			Reason:     "deploy",
			Count:      plan.Total(),
		})
		s.eventBus.Publish(ctx, events.LeadsAssigned{
			BaseEvent:    events.NewBaseEvent(),
			BusinessID:   job.BusinessID,
			ModeratorID:  job.ModeratorID,
			AssignedByID: job.AssignedByID,
			AssignedDate: job.AssignedDate,
			Reassigned:   int(resp.Reassigned),
			Created:      resp.Created,
		})
	}

	return resp, nil
}

// Invalidate drops cached contacts of a business.
func (s *Service) Invalidate(ctx context.Context, businessID uuid.UUID) {
	s.invalidate(ctx, businessID)
}

func (s *Service) invalidate(ctx context.Context, businessID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		s.log.WithContext(ctx).Warn("contact cache invalidation failed", "error", err)
	}
}

// loadContacts serves reconciled contacts from the cache when possible.
// Cache failures are logged and fall through to storage.
func (s *Service) loadContacts(ctx context.Context, businessID uuid.UUID) ([]contacts.Contact, error) {
	if s.cache != nil {
		list, found, err := s.cache.Get(ctx, businessID)
		if err != nil {
			s.log.WithContext(ctx).Warn("contact cache read failed", "error", err)
		}
		if found {
			return list, nil
		}
	}

	list, err := s.reconcile(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, businessID, list); err != nil {
			s.log.WithContext(ctx).Warn("contact cache write failed", "error", err)
		}
	}
	return list, nil
}

func (s *Service) reconcile(ctx context.Context, businessID uuid.UUID) ([]contacts.Contact, error) {
	var (
		leads  []contacts.Lead
		orders []contacts.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = s.leads.ListLeads(gctx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListOrders(gctx, businessID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Unavailable("could not load leads and orders", err)
	}

	list, stats := contacts.ReconcileWithStats(leads, orders, s.now())
	s.log.WithContext(ctx).Reconciled(businessID.String(), stats.Leads, stats.Orders, stats.Contacts,
		stats.InvalidLeads+stats.InvalidOrders+stats.DuplicateLeads)
	return list, nil
}

func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func criteriaFrom(q transport.ContactsQuery) (contacts.Criteria, error) {
	criteria := contacts.Criteria{
		Search:            q.Search,
		Status:            contacts.LeadStatus(q.Status),
		MinDaysSinceCall:  q.MinDaysSinceCall,
		MinDaysSinceOrder: q.MinDaysSinceOrder,
	}
	if criteria.Status == "" {
		criteria.Status = contacts.StatusAll
	}
	if q.Preset == "" {
		return criteria, nil
	}

	withPreset, ok := contacts.ApplyPreset(criteria, contacts.Preset(q.Preset))
	if !ok {
		return contacts.Criteria{}, apperr.Validation("unknown preset")
	}
	return withPreset, nil
}

// normalizePhones normalizes, drops unusable numbers and removes duplicates
// while keeping the first-seen order.
func normalizePhones(raw []string) []string {
	selection := contacts.NewSelection()
	for _, p := range raw {
		if n := phone.Normalize(p); phone.IsUsable(n) {
			selection.Add(n)
		}
	}
	return selection.Phones()
}
