package service

import (
	"context"
	"errors"
	"testing"

	"orderhub_backend/internal/courier"
	"orderhub_backend/internal/events"
	"orderhub_backend/internal/orders/repository"
	"orderhub_backend/internal/orders/transport"
	"orderhub_backend/platform/apperr"
	"orderhub_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]repository.Order
}

func newFakeRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]repository.Order{}}
}

func (r *fakeOrderRepo) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]repository.Order, error) {
	var out []repository.Order
	for _, o := range r.orders {
		if o.BusinessID == businessID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByModerator(_ context.Context, businessID, moderatorID uuid.UUID) ([]repository.Order, error) {
	var out []repository.Order
	for _, o := range r.orders {
		if o.BusinessID == businessID && o.ModeratorID != nil && *o.ModeratorID == moderatorID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, businessID, id uuid.UUID) (repository.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.BusinessID != businessID {
		return repository.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, o repository.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) UpdateCourier(_ context.Context, _, id uuid.UUID, b repository.CourierBooking) error {
	o, ok := r.orders[id]
	if !ok || o.ConsignmentID != nil {
		return repository.ErrNotFound
	}
	o.ConsignmentID = &b.ConsignmentID
	r.orders[id] = o
	return nil
}

type fakeCourier struct {
	enabled bool
	err     error
	parcels []courier.Parcel
}

func (c *fakeCourier) Enabled() bool { return c.enabled }

func (c *fakeCourier) CreateOrder(_ context.Context, p courier.Parcel) (courier.Consignment, error) {
	if c.err != nil {
		return courier.Consignment{}, c.err
	}
	c.parcels = append(c.parcels, p)
	return courier.Consignment{ConsignmentID: "SF-1", Status: "in_review"}, nil
}

type eventLog struct {
	published []events.Event
}

func (b *eventLog) Publish(_ context.Context, e events.Event) { b.published = append(b.published, e) }

func (b *eventLog) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *eventLog) Subscribe(string, events.Handler) {}

var business = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")

func TestCreateComputesGrandTotalAndCreditsModerator(t *testing.T) {
	repo := newFakeRepo()
	bus := &eventLog{}
	svc := New(repo, &fakeCourier{}, bus, logger.New("test"))
	moderatorID := uuid.New()

	resp, err := svc.Create(context.Background(), Actor{UserID: moderatorID, BusinessID: business}, transport.CreateOrderRequest{
		CustomerName:   "Rahim",
		CustomerPhone:  "+880 1711-000001",
		TotalAmount:    1000,
		Discount:       50.5,
		DeliveryCharge: 60,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.GrandTotal != 1009.5 {
		t.Fatalf("grand total = %v", resp.GrandTotal)
	}
	if resp.CustomerPhone != "01711000001" {
		t.Fatalf("phone not normalized: %q", resp.CustomerPhone)
	}
	if resp.ModeratorID == nil || *resp.ModeratorID != moderatorID {
		t.Fatalf("order not credited to moderator: %+v", resp.ModeratorID)
	}
	if resp.Status != StatusPending {
		t.Fatalf("status = %q", resp.Status)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "orders.created" {
		t.Fatalf("unexpected events: %v", bus.published)
	}
}

func TestCreateRejectsNegativeTotal(t *testing.T) {
	svc := New(newFakeRepo(), &fakeCourier{}, &eventLog{}, logger.New("test"))

	_, err := svc.Create(context.Background(), Actor{BusinessID: business, IsOwner: true}, transport.CreateOrderRequest{
		CustomerPhone: "01711000001",
		TotalAmount:   100,
		Discount:      200,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListScopesModerators(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &fakeCourier{}, &eventLog{}, logger.New("test"))
	ctx := context.Background()
	mod := uuid.New()

	if _, err := svc.Create(ctx, Actor{UserID: mod, BusinessID: business}, transport.CreateOrderRequest{CustomerPhone: "01711000001"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, Actor{UserID: uuid.New(), BusinessID: business, IsOwner: true}, transport.CreateOrderRequest{CustomerPhone: "01711000002"}); err != nil {
		t.Fatal(err)
	}

	own, err := svc.List(ctx, Actor{UserID: mod, BusinessID: business})
	if err != nil || own.Total != 1 {
		t.Fatalf("moderator list = %+v, %v", own, err)
	}
	all, err := svc.List(ctx, Actor{BusinessID: business, IsOwner: true})
	if err != nil || all.Total != 2 {
		t.Fatalf("owner list = %+v, %v", all, err)
	}
}

func TestUpdateStatusPublishesChange(t *testing.T) {
	repo := newFakeRepo()
	bus := &eventLog{}
	svc := New(repo, &fakeCourier{}, bus, logger.New("test"))
	id := uuid.New()
	repo.orders[id] = repository.Order{ID: id, BusinessID: business, Status: StatusPending}

	resp, err := svc.UpdateStatus(context.Background(), business, id, StatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resp.Status != StatusShipped || repo.orders[id].Status != StatusShipped {
		t.Fatalf("status not updated")
	}
	changed, ok := bus.published[0].(events.OrderStatusChanged)
	if !ok || changed.OldStatus != StatusPending || changed.NewStatus != StatusShipped {
		t.Fatalf("unexpected event: %+v", bus.published[0])
	}

	if _, err := svc.UpdateStatus(context.Background(), business, id, "lost"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), business, uuid.New(), StatusShipped); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSyncCourier(t *testing.T) {
	repo := newFakeRepo()
	booker := &fakeCourier{enabled: true}
	svc := New(repo, booker, &eventLog{}, logger.New("test"))
	id := uuid.New()
	repo.orders[id] = repository.Order{ID: id, BusinessID: business, Status: StatusConfirmed, CustomerPhone: "01711000001", GrandTotal: 990}
	ctx := context.Background()

	resp, err := svc.SyncCourier(ctx, business, id)
	if err != nil {
		t.Fatalf("SyncCourier: %v", err)
	}
	if resp.ConsignmentID != "SF-1" || resp.CourierStatus != "in_review" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if p := booker.parcels[0]; p.CODAmount != 990 || p.Note != defaultCourierNote || p.Invoice != id.String() {
		t.Fatalf("unexpected parcel: %+v", p)
	}

	if _, err := svc.SyncCourier(ctx, business, id); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second booking, got %v", err)
	}
}

func TestSyncCourierFailures(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.orders[id] = repository.Order{ID: id, BusinessID: business, Status: StatusPending}
	ctx := context.Background()

	disabled := New(repo, &fakeCourier{}, &eventLog{}, logger.New("test"))
	if _, err := disabled.SyncCourier(ctx, business, id); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request when disabled, got %v", err)
	}

	failing := New(repo, &fakeCourier{enabled: true, err: errors.New("timeout")}, &eventLog{}, logger.New("test"))
	_, err := failing.SyncCourier(ctx, business, id)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || !appErr.Retryable() {
		t.Fatalf("expected retryable error, got %v", err)
	}

	cancelled := uuid.New()
	repo.orders[cancelled] = repository.Order{ID: cancelled, BusinessID: business, Status: StatusCancelled}
	ok := New(repo, &fakeCourier{enabled: true}, &eventLog{}, logger.New("test"))
	if _, err := ok.SyncCourier(ctx, business, cancelled); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
