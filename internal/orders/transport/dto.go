package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateOrderRequest struct {
	CustomerName    string  `json:"customerName" validate:"max=120"`
	CustomerPhone   string  `json:"customerPhone" validate:"required,bdphone"`
	CustomerAddress string  `json:"customerAddress" validate:"max=300"`
	TotalAmount     float64 `json:"totalAmount" validate:"gte=0"`
	Discount        float64 `json:"discount" validate:"gte=0"`
	DeliveryCharge  float64 `json:"deliveryCharge" validate:"gte=0"`
	Notes           string  `json:"notes" validate:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,orderstatus"`
}

// Response DTOs

type OrderResponse struct {
	ID              uuid.UUID  `json:"id"`
	ModeratorID     *uuid.UUID `json:"moderatorId,omitempty"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   string     `json:"customerPhone"`
	CustomerAddress string     `json:"customerAddress"`
	TotalAmount     float64    `json:"totalAmount"`
	Discount        float64    `json:"discount"`
	DeliveryCharge  float64    `json:"deliveryCharge"`
	GrandTotal      float64    `json:"grandTotal"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	ConsignmentID   string     `json:"consignmentId,omitempty"`
	TrackingCode    string     `json:"trackingCode,omitempty"`
	CourierStatus   string     `json:"courierStatus,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int             `json:"total"`
}
