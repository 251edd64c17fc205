// Package service holds the order workflows: placing orders, moving them
// through fulfilment and booking them with the courier.
package service

import (
	"context"
	"errors"
	"math"
	"time"

	"orderhub_backend/internal/courier"
	"orderhub_backend/internal/events"
	"orderhub_backend/internal/orders/ports"
	"orderhub_backend/internal/orders/repository"
	"orderhub_backend/internal/orders/transport"
	"orderhub_backend/platform/apperr"
	"orderhub_backend/platform/logger"
	"orderhub_backend/platform/phone"
	"orderhub_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusReturned   = "returned"
	StatusOnHold     = "on_hold"
)

const defaultCourierNote = "Order from OrderHub"

// IsStatus reports whether s is a known order status.
func IsStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned, StatusOnHold:
		return true
	default:
		return false
	}
}

// Actor is the authenticated user a workflow runs for.
type Actor struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	IsOwner    bool
}

type Service struct {
	repo     repository.OrderRepository
	courier  ports.CourierBooker
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo repository.OrderRepository, booker ports.CourierBooker, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, courier: booker, eventBus: eventBus, log: log}
}

// List returns all orders for owners and a moderator's own orders otherwise.
func (s *Service) List(ctx context.Context, actor Actor) (transport.OrderListResponse, error) {
	var (
		orders []repository.Order
		err    error
	)
	if actor.IsOwner {
		orders, err = s.repo.ListByBusiness(ctx, actor.BusinessID)
	} else {
		orders, err = s.repo.ListByModerator(ctx, actor.BusinessID, actor.UserID)
	}
	if err != nil {
		return transport.OrderListResponse{}, apperr.Unavailable("could not load orders", err)
	}

	items := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderResponse(o))
	}
	return transport.OrderListResponse{Items: items, Total: len(items)}, nil
}

// Create places a pending order. Orders placed by a moderator are credited to them.
func (s *Service) Create(ctx context.Context, actor Actor, req transport.CreateOrderRequest) (transport.OrderResponse, error) {
	customerPhone := phone.Normalize(req.CustomerPhone)
	if !phone.IsUsable(customerPhone) {
		return transport.OrderResponse{}, apperr.Validation("customer phone is not a valid number")
	}

	grandTotal := roundMoney(req.TotalAmount - req.Discount + req.DeliveryCharge)
	if grandTotal < 0 {
		return transport.OrderResponse{}, apperr.Validation("discount exceeds order total")
	}

	order := repository.Order{
		ID:              uuid.New(),
		BusinessID:      actor.BusinessID,
		CustomerName:    sanitize.Limit(sanitize.Text(req.CustomerName), 120),
		CustomerPhone:   customerPhone,
		CustomerAddress: sanitize.Limit(sanitize.Text(req.CustomerAddress), 300),
		TotalAmount:     roundMoney(req.TotalAmount),
		Discount:        roundMoney(req.Discount),
		DeliveryCharge:  roundMoney(req.DeliveryCharge),
		GrandTotal:      grandTotal,
		Status:          StatusPending,
		Notes:           sanitize.Limit(sanitize.Text(req.Notes), 500),
		CreatedAt:       time.Now().UTC(),
	}
	if !actor.IsOwner {
		moderatorID := actor.UserID
		order.ModeratorID = &moderatorID
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return transport.OrderResponse{}, apperr.Unavailable("could not save order", err)
	}

	s.log.WithContext(ctx).Info("order created", "orderId", order.ID, "grandTotal", order.GrandTotal)
	s.eventBus.Publish(ctx, events.OrderCreated{
		BaseEvent:     events.NewBaseEvent(),
		BusinessID:    order.BusinessID,
		OrderID:       order.ID,
		ModeratorID:   order.ModeratorID,
		CustomerPhone: order.CustomerPhone,
		GrandTotal:    order.GrandTotal,
	})

	return toOrderResponse(order), nil
}

// UpdateStatus moves an order to another fulfilment status.
func (s *Service) UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status string) (transport.OrderResponse, error) {
	if !IsStatus(status) {
		return transport.OrderResponse{}, apperr.Validation("invalid order status")
	}

	order, err := s.get(ctx, businessID, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	if order.Status == status {
		return toOrderResponse(order), nil
	}

	if err := s.repo.UpdateStatus(ctx, businessID, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.OrderResponse{}, apperr.NotFound("order not found")
		}
		return transport.OrderResponse{}, apperr.Unavailable("could not update order", err)
	}

	s.eventBus.Publish(ctx, events.OrderStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		BusinessID: businessID,
		OrderID:    id,
		OldStatus:  order.Status,
		NewStatus:  status,
	})

	order.Status = status
	return toOrderResponse(order), nil
}

// SyncCourier books the order with the courier once. The cash-on-delivery
// amount is the grand total.
func (s *Service) SyncCourier(ctx context.Context, businessID, id uuid.UUID) (transport.OrderResponse, error) {
	if s.courier == nil || !s.courier.Enabled() {
		return transport.OrderResponse{}, apperr.BadRequest(courier.ErrDisabled.Error())
	}

	order, err := s.get(ctx, businessID, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	if order.ConsignmentID != nil {
		return transport.OrderResponse{}, apperr.Conflict("order is already booked with the courier")
	}
	if order.Status == StatusCancelled || order.Status == StatusReturned {
		return transport.OrderResponse{}, apperr.Validation("cancelled or returned orders cannot be shipped")
	}

	note := order.Notes
	if note == "" {
		note = defaultCourierNote
	}
	consignment, err := s.courier.CreateOrder(ctx, courier.Parcel{
		Invoice:   order.ID.String(),
		Name:      order.CustomerName,
		Phone:     order.CustomerPhone,
		Address:   order.CustomerAddress,
		CODAmount: order.GrandTotal,
		Note:      note,
	})
	if err != nil {
		s.log.WithContext(ctx).Warn("courier booking failed", "orderId", order.ID, "error", err)
		return transport.OrderResponse{}, apperr.Unavailable("courier booking failed", err)
	}

	booking := repository.CourierBooking{
		ConsignmentID: consignment.ConsignmentID,
		TrackingCode:  consignment.TrackingCode,
		Status:        consignment.Status,
	}
	if err := s.repo.UpdateCourier(ctx, businessID, id, booking); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.OrderResponse{}, apperr.Conflict("order was booked concurrently")
		}
		return transport.OrderResponse{}, apperr.Unavailable("could not store courier booking", err)
	}

	order.ConsignmentID = &booking.ConsignmentID
	order.TrackingCode = &booking.TrackingCode
	order.CourierStatus = &booking.Status
	return toOrderResponse(order), nil
}

func (s *Service) get(ctx context.Context, businessID, id uuid.UUID) (repository.Order, error) {
	order, err := s.repo.GetByID(ctx, businessID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Order{}, apperr.NotFound("order not found")
	}
	if err != nil {
		return repository.Order{}, apperr.Unavailable("could not load order", err)
	}
	return order, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func toOrderResponse(o repository.Order) transport.OrderResponse {
	return transport.OrderResponse{
		ID:              o.ID,
		ModeratorID:     o.ModeratorID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		TotalAmount:     o.TotalAmount,
		Discount:        o.Discount,
		DeliveryCharge:  o.DeliveryCharge,
		GrandTotal:      o.GrandTotal,
		Status:          o.Status,
		Notes:           o.Notes,
		ConsignmentID:   deref(o.ConsignmentID),
		TrackingCode:    deref(o.TrackingCode),
		CourierStatus:   deref(o.CourierStatus),
		CreatedAt:       o.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
