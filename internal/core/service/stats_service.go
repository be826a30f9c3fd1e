package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/weblarek/commerce-system/internal/core/domain"
	"github.com/weblarek/commerce-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, customerID, orderID string) (bool, error)
	Mark(ctx context.Context, customerID, orderID string) error
}

type statsService struct {
	users  ports.UserRepository
	orders ports.OrderRepository
	dedup  DedupChecker
	log    zerolog.Logger
}

// NewStatsService returns a StatsService that recomputes a customer's order
// aggregates from the orders collection on every order event.
func NewStatsService(
	users ports.UserRepository,
	orders ports.OrderRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.StatsService {
	return &statsService{users: users, orders: orders, dedup: dedup, log: log}
}

// Process recomputes and persists the customer's denormalized aggregates.
// The recompute is a full re-aggregation, so replays converge to the same
// result; dedup only saves the redundant work.
func (s *statsService) Process(ctx context.Context, in ports.OrderEventInput) error {
	isDup, err := s.dedup.IsDuplicate(ctx, in.CustomerID, in.OrderID)
	if err != nil {
		s.log.Warn().Err(err).Str("customer_id", in.CustomerID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("customer_id", in.CustomerID).Str("order_id", in.OrderID).Msg("duplicate order event skipped")
		return nil
	}

	stats, err := s.orders.AggregateStats(ctx, in.CustomerID)
	if err != nil {
		return fmt.Errorf("aggregate order stats: %w", err)
	}

	if err := s.users.UpdateOrderStats(ctx, in.CustomerID, stats); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("customer_id", in.CustomerID).Msg("order event for unknown customer dropped")
			return nil
		}
		return fmt.Errorf("write order stats: %w", err)
	}

	if markErr := s.dedup.Mark(ctx, in.CustomerID, in.OrderID); markErr != nil {
		s.log.Warn().Err(markErr).Str("customer_id", in.CustomerID).Msg("failed to set dedup key")
	}

	s.log.Info().
		Str("customer_id", in.CustomerID).
		Int64("order_count", stats.OrderCount).
		Msg("order stats recomputed")

	return nil
}
