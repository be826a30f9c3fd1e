package ports

import (
	"context"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

// OrderRepository is the read-side collaborator owned by the order subsystem.
// The stats recompute only needs the per-customer aggregate.
type OrderRepository interface {
	// AggregateStats computes total amount, order count and last order for
	// the customer across all their orders. Returns zero-valued stats when
	// the customer has no orders.
	AggregateStats(ctx context.Context, customerID string) (domain.OrderStats, error)
}
