package contacts

import (
	"strings"
	"time"

	"orderhub_backend/platform/phone"
)

// Stats counts what a reconciliation dropped or merged.
type Stats struct {
	Leads          int
	Orders         int
	Contacts       int
	InvalidLeads   int
	InvalidOrders  int
	DuplicateLeads int
	MergedOrders   int
}

// Reconcile merges leads and orders keyed by normalized phone into contacts.
// The result is in first-seen order; callers apply their own sort.
func Reconcile(leads []Lead, orders []Order, now time.Time) []Contact {
	result, _ := ReconcileWithStats(leads, orders, now)
	return result
}

// ReconcileWithStats is Reconcile plus counters for logging.
//
// Merge policy:
//   - leads are applied first and the first lead per phone seeds the contact;
//     later leads for the same phone are ignored.
//   - orders for a new phone seed an "unassigned" contact; orders for a known
//     phone add to the totals and move the last order date only when strictly newer.
//   - orders never change the status or the moderator of a contact.
func ReconcileWithStats(leads []Lead, orders []Order, now time.Time) ([]Contact, Stats) {
	stats := Stats{Leads: len(leads), Orders: len(orders)}
	byPhone := make(map[string]*Contact, len(leads)+len(orders))
	keys := make([]string, 0, len(leads)+len(orders))

	for _, lead := range leads {
		key := phone.Normalize(lead.PhoneNumber)
		if !phone.IsUsable(key) {
			stats.InvalidLeads++
			continue
		}
		if _, seen := byPhone[key]; seen {
			stats.DuplicateLeads++
			continue
		}
		byPhone[key] = seedFromLead(key, lead, now)
		keys = append(keys, key)
	}

	for _, order := range orders {
		key := phone.Normalize(order.CustomerPhone)
		if !phone.IsUsable(key) {
			stats.InvalidOrders++
			continue
		}
		contact, seen := byPhone[key]
		if !seen {
			byPhone[key] = seedFromOrder(key, order, now)
			keys = append(keys, key)
			continue
		}
		applyOrder(contact, order, now)
		stats.MergedOrders++
	}

	result := make([]Contact, 0, len(keys))
	for _, key := range keys {
		result = append(result, *byPhone[key])
	}
	stats.Contacts = len(result)

	return result, stats
}

func seedFromLead(key string, lead Lead, now time.Time) *Contact {
	leadID := lead.ID
	contact := &Contact{
		Phone:         key,
		Name:          valueOr(lead.CustomerName, ProspectName),
		Address:       strings.TrimSpace(lead.Address),
		LeadID:        &leadID,
		CurrentStatus: lead.Status,
		ModeratorID:   copyID(lead.ModeratorID),
	}

	createdAt, ok := parseTimestamp(lead.CreatedAt)
	if !ok {
		return contact
	}
	contact.LastActivityAt = timePtr(createdAt)

	// A pending lead has never been called, so its call age stays unknown.
	if lead.Status != StatusPending {
		contact.LastCallDate = timePtr(createdAt)
		contact.DaysSinceCall = intPtr(daysSince(now, createdAt))
	}

	return contact
}

func seedFromOrder(key string, order Order, now time.Time) *Contact {
	contact := &Contact{
		Phone:         key,
		Name:          valueOr(order.CustomerName, ProspectName),
		Address:       strings.TrimSpace(order.CustomerAddress),
		TotalOrders:   1,
		TotalSpent:    order.TotalAmount,
		CurrentStatus: StatusUnassigned,
	}

	if createdAt, ok := parseTimestamp(order.CreatedAt); ok {
		contact.LastOrderDate = timePtr(createdAt)
		contact.DaysSinceOrder = intPtr(daysSince(now, createdAt))
		contact.LastActivityAt = timePtr(createdAt)
	}

	return contact
}

func applyOrder(contact *Contact, order Order, now time.Time) {
	contact.TotalOrders++
	contact.TotalSpent += order.TotalAmount

	createdAt, dated := parseTimestamp(order.CreatedAt)
	if dated && isMoreRecent(createdAt, contact.LastOrderDate) {
		contact.LastOrderDate = timePtr(createdAt)
		contact.DaysSinceOrder = intPtr(daysSince(now, createdAt))
	}

	if !shouldRefreshIdentity(contact, createdAt, dated) {
		return
	}
	refreshIdentity(contact, order)
	if dated && !createdAt.Before(activityOrZero(contact.LastActivityAt)) {
		contact.LastActivityAt = timePtr(createdAt)
	}
}

// shouldRefreshIdentity lets an order at least as recent as the contact's last
// activity, or any order for a still-anonymous prospect, supply name and address.
func shouldRefreshIdentity(contact *Contact, orderDate time.Time, dated bool) bool {
	if contact.Name == ProspectName {
		return true
	}
	if !dated {
		return false
	}
	return contact.LastActivityAt == nil || !orderDate.Before(*contact.LastActivityAt)
}

func refreshIdentity(contact *Contact, order Order) {
	if name := strings.TrimSpace(order.CustomerName); name != "" {
		contact.Name = name
	}
	if address := strings.TrimSpace(order.CustomerAddress); address != "" {
		contact.Address = address
	}
}

func activityOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
