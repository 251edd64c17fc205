package contacts

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// CustomerKind tells converted customers apart from call-only leads.
type CustomerKind string

const (
	KindLead     CustomerKind = "lead"
	KindCustomer CustomerKind = "customer"
)

// LoyalOrderCount is the order count above which a customer counts as loyal.
const LoyalOrderCount = 2

// Customer is a registry row: a contact plus its lifetime classification.
type Customer struct {
	Contact
	Kind  CustomerKind `json:"kind"`
	Loyal bool         `json:"loyal"`
}

// RegistrySummary aggregates the registry for the lifetime value view.
type RegistrySummary struct {
	Contacts   int     `json:"contacts"`
	Customers  int     `json:"customers"`
	Leads      int     `json:"leads"`
	Loyal      int     `json:"loyal"`
	TotalSpent float64 `json:"totalSpent"`
}

// Registry classifies contacts for the customer lifetime value view, filtered
// by a case-insensitive phone or name search and sorted by last activity.
func Registry(list []Contact, search string) ([]Customer, RegistrySummary) {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(search))

	customers := make([]Customer, 0, len(list))
	var summary RegistrySummary
	for _, c := range list {
		if needle != "" &&
			!strings.Contains(c.Phone, needle) &&
			!strings.Contains(folder.String(c.Name), needle) {
			continue
		}

		row := Customer{Contact: c, Kind: KindLead}
		if c.TotalOrders > 0 {
			row.Kind = KindCustomer
			summary.Customers++
		} else {
			summary.Leads++
		}
		if c.TotalOrders > LoyalOrderCount {
			row.Loyal = true
			summary.Loyal++
		}
		summary.TotalSpent += c.TotalSpent
		customers = append(customers, row)
	}
	summary.Contacts = len(customers)

	sort.SliceStable(customers, func(i, j int) bool {
		a, b := lastActivity(customers[i].Contact), lastActivity(customers[j].Contact)
		if !a.Equal(b) {
			return a.After(b)
		}
		return customers[i].Phone < customers[j].Phone
	})

	return customers, summary
}

func lastActivity(c Contact) time.Time {
	if c.LastActivityAt != nil {
		return *c.LastActivityAt
	}
	return time.Time{}
}
