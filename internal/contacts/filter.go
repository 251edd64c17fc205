package contacts

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// StatusAll disables the status predicate.
const StatusAll LeadStatus = "all"

// Criteria holds the active filter predicates. Zero values are inactive.
type Criteria struct {
	Search            string
	Status            LeadStatus
	MinDaysSinceCall  *int
	MinDaysSinceOrder *int
}

// Filter keeps the contacts matching every active predicate and returns them
// sorted most recently active first. The input slice is not modified.
func Filter(list []Contact, criteria Criteria) []Contact {
	match := newMatcher(criteria)

	result := make([]Contact, 0, len(list))
	for _, contact := range list {
		if match(contact) {
			result = append(result, contact)
		}
	}

	SortByActivity(result)
	return result
}

// SortByActivity orders contacts by last order date, falling back to the last
// call date, newest first. Contacts without either sort last; ties by phone.
func SortByActivity(list []Contact) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].activityTime(), list[j].activityTime()
		if !a.Equal(b) {
			return a.After(b)
		}
		return list[i].Phone < list[j].Phone
	})
}

func newMatcher(criteria Criteria) func(Contact) bool {
	// cases.Caser is stateful, so each Filter call gets its own.
	folder := cases.Fold()
	search := folder.String(strings.TrimSpace(criteria.Search))

	return func(c Contact) bool {
		if search != "" &&
			!strings.Contains(folder.String(c.Phone), search) &&
			!strings.Contains(folder.String(c.Name), search) {
			return false
		}

		switch criteria.Status {
		case "", StatusAll:
		case StatusUnassigned:
			if c.HasModerator() {
				return false
			}
		default:
			if c.CurrentStatus != criteria.Status {
				return false
			}
		}

		if !meetsThreshold(c.DaysSinceCall, criteria.MinDaysSinceCall) {
			return false
		}
		return meetsThreshold(c.DaysSinceOrder, criteria.MinDaysSinceOrder)
	}
}

// meetsThreshold fails contacts with no day count when a threshold is set:
// staleness cannot be proven without data.
func meetsThreshold(days, threshold *int) bool {
	if threshold == nil {
		return true
	}
	return days != nil && *days >= *threshold
}
