// Package ports defines what the orders module needs from other modules.
package ports

import (
	"context"

	"orderhub_backend/internal/courier"
)

// CourierBooker books parcels with the delivery partner.
type CourierBooker interface {
	Enabled() bool
	CreateOrder(ctx context.Context, parcel courier.Parcel) (courier.Consignment, error)
}
