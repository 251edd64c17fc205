package adapters

import (
	"context"
	"fmt"
	"time"

	campaignports "orderhub_backend/internal/campaigns/ports"
	"orderhub_backend/internal/contacts"
	ordersrepo "orderhub_backend/internal/orders/repository"

	"github.com/google/uuid"
)

// OrderLister is the narrow read side of the orders repository.
type OrderLister interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]ordersrepo.Order, error)
}

// CampaignOrderSource adapts the orders repository to the campaigns OrderSource port.
type CampaignOrderSource struct {
	orders OrderLister
}

// NewCampaignOrderSource creates a new order source adapter.
func NewCampaignOrderSource(orders OrderLister) *CampaignOrderSource {
	return &CampaignOrderSource{orders: orders}
}

// ListOrders returns the business's orders as raw reconciliation rows.
// Every order counts toward totals regardless of its fulfilment status.
func (a *CampaignOrderSource) ListOrders(ctx context.Context, businessID uuid.UUID) ([]contacts.Order, error) {
	rows, err := a.orders.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list orders for reconciliation: %w", err)
	}

	orders := make([]contacts.Order, 0, len(rows))
	for _, row := range rows {
		order := contacts.Order{
			ID:              row.ID,
			CustomerPhone:   row.CustomerPhone,
			CustomerName:    row.CustomerName,
			CustomerAddress: row.CustomerAddress,
			TotalAmount:     row.GrandTotal,
			CreatedAt:       row.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if row.ModeratorID != nil {
			order.ModeratorID = *row.ModeratorID
		}
		orders = append(orders, order)
	}
	return orders, nil
}

var _ campaignports.OrderSource = (*CampaignOrderSource)(nil)
