package ports

import (
	"context"
	"time"
)

// OrderEventInput is the DTO passed from the transport layer to StatsService.
type OrderEventInput struct {
	OrderID    string
	CustomerID string
	Total      float64
	PlacedAt   time.Time
}

// StatsService recomputes a customer's denormalized order aggregates in
// response to order events.
type StatsService interface {
	Process(ctx context.Context, event OrderEventInput) error
}
