package contacts

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"orderhub_backend/platform/phone"
)

var testNow = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func findContact(t *testing.T, list []Contact, key string) Contact {
	t.Helper()
	for _, c := range list {
		if c.Phone == key {
			return c
		}
	}
	t.Fatalf("contact %q not found in %d contacts", key, len(list))
	return Contact{}
}

func TestReconcileMergesLeadAndOrderAcrossPhoneFormats(t *testing.T) {
	leads := []Lead{{ID: uuid.New(), PhoneNumber: "01711112222", Status: StatusPending, CreatedAt: "2024-01-01"}}
	orders := []Order{{ID: uuid.New(), CustomerPhone: "8801711112222", TotalAmount: 500, CreatedAt: "2024-02-01"}}

	result := Reconcile(leads, orders, testNow)

	if len(result) != 1 {
		t.Fatalf("expected 1 merged contact, got %d", len(result))
	}
	c := result[0]
	if c.Phone != "01711112222" {
		t.Fatalf("expected phone 01711112222, got %q", c.Phone)
	}
	if c.TotalOrders != 1 {
		t.Fatalf("expected 1 order, got %d", c.TotalOrders)
	}
	if c.DaysSinceCall != nil {
		t.Fatalf("expected nil daysSinceCall for pending lead, got %d", *c.DaysSinceCall)
	}
	if c.CurrentStatus != StatusPending {
		t.Fatalf("expected status pending to survive the order, got %q", c.CurrentStatus)
	}
	if c.LeadID == nil || *c.LeadID != leads[0].ID {
		t.Fatal("expected contact to reference the originating lead")
	}
	if c.DaysSinceOrder == nil || *c.DaysSinceOrder != 29 {
		t.Fatalf("expected 29 days since order, got %v", c.DaysSinceOrder)
	}
}

func TestReconcileWithoutOverlapKeepsEveryValidRow(t *testing.T) {
	leads := []Lead{
		{ID: uuid.New(), PhoneNumber: "01711000001", Status: StatusConfirmed, CreatedAt: "2024-01-01"},
		{ID: uuid.New(), PhoneNumber: "01711000002", Status: StatusPending, CreatedAt: "2024-01-02"},
		{ID: uuid.New(), PhoneNumber: "12345", Status: StatusPending},
	}
	orders := []Order{
		{ID: uuid.New(), CustomerPhone: "+8801811000001", CreatedAt: "2024-01-05"},
		{ID: uuid.New(), CustomerPhone: "", CreatedAt: "2024-01-06"},
	}

	result, stats := ReconcileWithStats(leads, orders, testNow)

	if len(result) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(result))
	}
	if stats.InvalidLeads != 1 || stats.InvalidOrders != 1 {
		t.Fatalf("expected one invalid lead and order, got %+v", stats)
	}
}

func TestReconcileTotalOrdersMatchesNormalizedOrderCount(t *testing.T) {
	formats := []string{"01911223344", "+8801911223344", "8801911223344", "1911223344", "01511000000"}
	var orders []Order
	for i := 0; i < 20; i++ {
		orders = append(orders, Order{
			ID:            uuid.New(),
			CustomerPhone: formats[i%len(formats)],
			TotalAmount:   float64(i),
			CreatedAt:     fmt.Sprintf("2024-01-%02dT10:00:00Z", i+1),
		})
	}

	result := Reconcile(nil, orders, testNow)

	for _, c := range result {
		want := 0
		for _, o := range orders {
			if phone.Normalize(o.CustomerPhone) == c.Phone {
				want++
			}
		}
		if c.TotalOrders != want {
			t.Errorf("contact %s: expected %d orders, got %d", c.Phone, want, c.TotalOrders)
		}
		if c.DaysSinceOrder != nil && *c.DaysSinceOrder < 0 {
			t.Errorf("contact %s: negative daysSinceOrder %d", c.Phone, *c.DaysSinceOrder)
		}
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(result))
	}
}

func TestReconcilePendingLeadNeverHasCallAge(t *testing.T) {
	leads := []Lead{
		{ID: uuid.New(), PhoneNumber: "01711000001", Status: StatusPending, CreatedAt: "2024-01-01"},
		{ID: uuid.New(), PhoneNumber: "01711000002", Status: StatusNoResponse, CreatedAt: "2024-02-20T00:00:00Z"},
	}

	result := Reconcile(leads, nil, testNow)

	pending := findContact(t, result, "01711000001")
	if pending.DaysSinceCall != nil || pending.LastCallDate != nil {
		t.Fatal("pending lead must not produce a call date")
	}
	called := findContact(t, result, "01711000002")
	if called.DaysSinceCall == nil || *called.DaysSinceCall != 10 {
		t.Fatalf("expected 10 days since call, got %v", called.DaysSinceCall)
	}
}

// Leads are expected to be deduplicated upstream; when they are not, the
// first lead seen for a phone is the one the contact reflects.
func TestReconcileFirstLeadWins(t *testing.T) {
	mod := uuid.New()
	first := Lead{ID: uuid.New(), PhoneNumber: "01711000001", CustomerName: "First", Status: StatusConfirmed, ModeratorID: &mod, CreatedAt: "2024-01-01"}
	second := Lead{ID: uuid.New(), PhoneNumber: "+8801711000001", CustomerName: "Second", Status: StatusNoResponse, CreatedAt: "2024-02-01"}

	result, stats := ReconcileWithStats([]Lead{first, second}, nil, testNow)

	if len(result) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(result))
	}
	c := result[0]
	if c.Name != "First" || c.CurrentStatus != StatusConfirmed || *c.LeadID != first.ID {
		t.Fatalf("expected first lead to seed the contact, got %+v", c)
	}
	if stats.DuplicateLeads != 1 {
		t.Fatalf("expected 1 duplicate lead, got %d", stats.DuplicateLeads)
	}
}

func TestReconcileMostRecentOrderWins(t *testing.T) {
	orders := []Order{
		{ID: uuid.New(), CustomerPhone: "01711000001", CustomerName: "A", CreatedAt: "2024-02-10"},
		{ID: uuid.New(), CustomerPhone: "01711000001", CustomerName: "B", CreatedAt: "2024-01-10"},
		{ID: uuid.New(), CustomerPhone: "01711000001", CustomerName: "C", CreatedAt: "not a date"},
	}

	c := Reconcile(nil, orders, testNow)[0]

	want := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	if c.LastOrderDate == nil || !c.LastOrderDate.Equal(want) {
		t.Fatalf("expected last order %v, got %v", want, c.LastOrderDate)
	}
	if c.TotalOrders != 3 {
		t.Fatalf("expected 3 orders, got %d", c.TotalOrders)
	}
	if c.Name != "A" {
		t.Fatalf("older or undated orders must not rename the contact, got %q", c.Name)
	}
}

func TestReconcileUnparsableOrderDateLosesToValidDate(t *testing.T) {
	orders := []Order{
		{ID: uuid.New(), CustomerPhone: "01711000001", CreatedAt: "garbage"},
		{ID: uuid.New(), CustomerPhone: "01711000001", CreatedAt: "2024-01-15T08:00:00Z"},
	}

	c := Reconcile(nil, orders, testNow)[0]

	if c.LastOrderDate == nil {
		t.Fatal("expected valid order date to replace the absent one")
	}
	if c.DaysSinceOrder == nil || *c.DaysSinceOrder != 45 {
		t.Fatalf("expected 45 days since order, got %v", c.DaysSinceOrder)
	}
}

func TestReconcileOrderDoesNotReassignLead(t *testing.T) {
	mod := uuid.New()
	leads := []Lead{{ID: uuid.New(), PhoneNumber: "01711000001", Status: StatusCommunication, ModeratorID: &mod, CreatedAt: "2024-01-01"}}
	orders := []Order{{ID: uuid.New(), CustomerPhone: "01711000001", ModeratorID: uuid.New(), CreatedAt: "2024-02-01"}}

	c := Reconcile(leads, orders, testNow)[0]

	if c.ModeratorID == nil || *c.ModeratorID != mod {
		t.Fatal("order must not change the contact's moderator")
	}
	if c.CurrentStatus != StatusCommunication {
		t.Fatalf("order must not change status, got %q", c.CurrentStatus)
	}
}

func TestReconcileOrderOnlyContactIsUnassigned(t *testing.T) {
	orders := []Order{{ID: uuid.New(), CustomerPhone: "01711000001", CustomerName: "Rahim", CustomerAddress: "Dhaka", TotalAmount: 250, CreatedAt: "2024-02-01"}}

	c := Reconcile(nil, orders, testNow)[0]

	if c.CurrentStatus != StatusUnassigned || c.ModeratorID != nil || c.LeadID != nil {
		t.Fatalf("expected unassigned order-only contact, got %+v", c)
	}
	if c.Name != "Rahim" || c.Address != "Dhaka" || c.TotalOrders != 1 {
		t.Fatalf("expected identity from order, got %+v", c)
	}
}

func TestReconcileIdentityRefreshFromOrders(t *testing.T) {
	leads := []Lead{
		{ID: uuid.New(), PhoneNumber: "01711000001", CustomerName: "Karim", Address: "Old", Status: StatusConfirmed, CreatedAt: "2024-01-10"},
		{ID: uuid.New(), PhoneNumber: "01711000002", Status: StatusPending, CreatedAt: "2024-01-10"},
		{ID: uuid.New(), PhoneNumber: "01711000003", CustomerName: "Salma", Status: StatusConfirmed, CreatedAt: "2024-01-10"},
	}
	orders := []Order{
		{ID: uuid.New(), CustomerPhone: "01711000001", CustomerName: "Karim Uddin", CustomerAddress: "New", CreatedAt: "2024-01-10"},
		{ID: uuid.New(), CustomerPhone: "01711000002", CustomerName: "Nadia", CustomerAddress: "Sylhet", CreatedAt: "2023-12-01"},
		{ID: uuid.New(), CustomerPhone: "01711000003", CustomerName: "S. Begum", CreatedAt: "2023-12-01"},
	}

	result := Reconcile(leads, orders, testNow)

	sameDay := findContact(t, result, "01711000001")
	if sameDay.Name != "Karim Uddin" || sameDay.Address != "New" {
		t.Fatalf("order as recent as the lead should refresh identity, got %+v", sameDay)
	}
	prospect := findContact(t, result, "01711000002")
	if prospect.Name != "Nadia" || prospect.Address != "Sylhet" {
		t.Fatalf("prospect should take identity from any order, got %+v", prospect)
	}
	older := findContact(t, result, "01711000003")
	if older.Name != "Salma" {
		t.Fatalf("older order must not rename a known contact, got %q", older.Name)
	}
}

func TestReconcileRevenueAggregates(t *testing.T) {
	orders := []Order{
		{ID: uuid.New(), CustomerPhone: "01711000001", TotalAmount: 100, CreatedAt: "2024-01-01"},
		{ID: uuid.New(), CustomerPhone: "+8801711000001", TotalAmount: 200, CreatedAt: "2024-01-02"},
	}

	c := Reconcile(nil, orders, testNow)[0]

	if c.TotalOrders != 2 {
		t.Fatalf("expected 2 orders, got %d", c.TotalOrders)
	}
	if c.TotalSpent != 300 {
		t.Fatalf("expected revenue 300, got %v", c.TotalSpent)
	}
}

func TestReconcileFutureDatesClampToZero(t *testing.T) {
	orders := []Order{{ID: uuid.New(), CustomerPhone: "01711000001", CreatedAt: "2025-01-01"}}

	c := Reconcile(nil, orders, testNow)[0]

	if c.DaysSinceOrder == nil || *c.DaysSinceOrder != 0 {
		t.Fatalf("expected 0 days for a future order, got %v", c.DaysSinceOrder)
	}
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	mod := uuid.New()
	leads := []Lead{{ID: uuid.New(), PhoneNumber: "+880 1711-000001", ModeratorID: &mod, Status: StatusConfirmed, CreatedAt: "2024-01-01"}}
	orders := []Order{{ID: uuid.New(), CustomerPhone: "8801711000001", CustomerName: "X", CreatedAt: "2024-02-01"}}

	result := Reconcile(leads, orders, testNow)
	*result[0].ModeratorID = uuid.New()

	if leads[0].PhoneNumber != "+880 1711-000001" || orders[0].CustomerPhone != "8801711000001" {
		t.Fatal("inputs were modified")
	}
	if *leads[0].ModeratorID != mod {
		t.Fatal("contact must not alias the lead's moderator id")
	}
}
