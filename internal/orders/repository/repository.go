package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

// Order is a stored order row.
type Order struct {
	ID              uuid.UUID
	BusinessID      uuid.UUID
	ModeratorID     *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	TotalAmount     float64
	Discount        float64
	DeliveryCharge  float64
	GrandTotal      float64
	Status          string
	Notes           string
	ConsignmentID   *string
	TrackingCode    *string
	CourierStatus   *string
	CreatedAt       time.Time
}

// CourierBooking is the courier's answer stored on an order.
type CourierBooking struct {
	ConsignmentID string
	TrackingCode  string
	Status        string
}

// OrderRepository is the data access surface of the orders module.
type OrderRepository interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Order, error)
	ListByModerator(ctx context.Context, businessID, moderatorID uuid.UUID) ([]Order, error)
	GetByID(ctx context.Context, businessID, id uuid.UUID) (Order, error)
	Create(ctx context.Context, order Order) error
	UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status string) error
	UpdateCourier(ctx context.Context, businessID, id uuid.UUID, booking CourierBooking) error
}

var _ OrderRepository = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orderColumns = `id, business_id, moderator_id, customer_name, customer_phone, customer_address,
	total_amount, discount, delivery_charge, grand_total, status, notes,
	consignment_id, tracking_code, courier_status, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.BusinessID, &o.ModeratorID, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress,
		&o.TotalAmount, &o.Discount, &o.DeliveryCharge, &o.GrandTotal, &o.Status, &o.Notes,
		&o.ConsignmentID, &o.TrackingCode, &o.CourierStatus, &o.CreatedAt,
	)
	return o, err
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()

	items := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByBusiness returns every order of the business, newest first.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE business_id = $1
		ORDER BY created_at DESC, id
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collectOrders(rows)
}

// ListByModerator returns the orders a moderator placed, newest first.
func (r *Repository) ListByModerator(ctx context.Context, businessID, moderatorID uuid.UUID) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE business_id = $1 AND moderator_id = $2
		ORDER BY created_at DESC, id
	`, businessID, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("list moderator orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *Repository) GetByID(ctx context.Context, businessID, id uuid.UUID) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE business_id = $1 AND id = $2
	`, businessID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *Repository) Create(ctx context.Context, o Order) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO orders (id, business_id, moderator_id, customer_name, customer_phone, customer_address,
			total_amount, discount, delivery_charge, grand_total, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, o.ID, o.BusinessID, o.ModeratorID, o.CustomerName, o.CustomerPhone, o.CustomerAddress,
		o.TotalAmount, o.Discount, o.DeliveryCharge, o.GrandTotal, o.Status, o.Notes, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $3
		WHERE business_id = $1 AND id = $2
	`, businessID, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateCourier stores a courier booking. Orders that are already booked are
// left untouched and reported as not found.
func (r *Repository) UpdateCourier(ctx context.Context, businessID, id uuid.UUID, booking CourierBooking) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET consignment_id = $3, tracking_code = NULLIF($4, ''), courier_status = NULLIF($5, '')
		WHERE business_id = $1 AND id = $2 AND consignment_id IS NULL
	`, businessID, id, booking.ConsignmentID, booking.TrackingCode, booking.Status)
	if err != nil {
		return fmt.Errorf("update order courier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
