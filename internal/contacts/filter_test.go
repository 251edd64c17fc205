package contacts

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func dated(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleContacts() []Contact {
	mod := uuid.New()
	return []Contact{
		{Phone: "01711000001", Name: "Rahim", CurrentStatus: StatusConfirmed, ModeratorID: &mod, LastCallDate: dated(2024, 2, 1), DaysSinceCall: intPtr(29)},
		{Phone: "01711000002", Name: "Karim", CurrentStatus: StatusUnassigned, LastOrderDate: dated(2024, 1, 1), DaysSinceOrder: intPtr(60), TotalOrders: 1},
		{Phone: "01711000003", Name: "Prospect", CurrentStatus: StatusPending, ModeratorID: &mod},
		{Phone: "01811000004", Name: "Nadia", CurrentStatus: StatusNoResponse, LastCallDate: dated(2024, 2, 25), DaysSinceCall: intPtr(5), LastOrderDate: dated(2024, 2, 26), DaysSinceOrder: intPtr(4)},
		{Phone: "01911000005", Name: "Salma", CurrentStatus: StatusPending},
	}
}

func phonesOf(list []Contact) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Phone)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterSortsByLastOrderThenLastCall(t *testing.T) {
	got := phonesOf(Filter(sampleContacts(), Criteria{Status: StatusAll}))

	want := []string{"01811000004", "01711000001", "01711000002", "01711000003", "01911000005"}
	if !equalStrings(got, want) {
		t.Fatalf("unexpected order\n got: %v\nwant: %v", got, want)
	}
}

func TestFilterSearchMatchesPhoneOrNameCaseInsensitive(t *testing.T) {
	byName := Filter(sampleContacts(), Criteria{Search: "kAR"})
	if len(byName) != 1 || byName[0].Phone != "01711000002" {
		t.Fatalf("expected Karim, got %v", phonesOf(byName))
	}

	byPhone := Filter(sampleContacts(), Criteria{Search: "0181"})
	if len(byPhone) != 1 || byPhone[0].Phone != "01811000004" {
		t.Fatalf("expected Nadia, got %v", phonesOf(byPhone))
	}
}

func TestFilterUnassignedExcludesOwnedContacts(t *testing.T) {
	for _, c := range Filter(sampleContacts(), Criteria{Status: StatusUnassigned}) {
		if c.HasModerator() {
			t.Fatalf("unassigned filter returned owned contact %s", c.Phone)
		}
	}

	got := phonesOf(Filter(sampleContacts(), Criteria{Status: StatusUnassigned}))
	want := []string{"01811000004", "01711000002", "01911000005"}
	if !equalStrings(got, want) {
		t.Fatalf("unexpected unassigned set\n got: %v\nwant: %v", got, want)
	}
}

func TestFilterByLiteralStatus(t *testing.T) {
	got := phonesOf(Filter(sampleContacts(), Criteria{Status: StatusPending}))
	want := []string{"01711000003", "01911000005"}
	if !equalStrings(got, want) {
		t.Fatalf("unexpected pending set\n got: %v\nwant: %v", got, want)
	}
}

func TestFilterThresholdsExcludeMissingDayCounts(t *testing.T) {
	got := phonesOf(Filter(sampleContacts(), Criteria{MinDaysSinceCall: intPtr(5)}))
	want := []string{"01811000004", "01711000001"}
	if !equalStrings(got, want) {
		t.Fatalf("unexpected call threshold set\n got: %v\nwant: %v", got, want)
	}

	got = phonesOf(Filter(sampleContacts(), Criteria{MinDaysSinceOrder: intPtr(30)}))
	if !equalStrings(got, []string{"01711000002"}) {
		t.Fatalf("unexpected order threshold set: %v", got)
	}

	got = phonesOf(Filter(sampleContacts(), Criteria{MinDaysSinceCall: intPtr(1), MinDaysSinceOrder: intPtr(1)}))
	if !equalStrings(got, []string{"01811000004"}) {
		t.Fatalf("thresholds must combine with AND, got %v", got)
	}
}

func TestFilterDoesNotReorderInput(t *testing.T) {
	input := sampleContacts()
	before := phonesOf(input)

	_ = Filter(input, Criteria{})

	if !equalStrings(before, phonesOf(input)) {
		t.Fatal("Filter reordered its input")
	}
}
