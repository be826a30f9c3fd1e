package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/weblarek/commerce-system/internal/core/domain"
	"github.com/weblarek/commerce-system/internal/core/ports"
)

type stubOrderRepo struct {
	stats map[string]domain.OrderStats
	err   error
}

func (r *stubOrderRepo) AggregateStats(_ context.Context, customerID string) (domain.OrderStats, error) {
	if r.err != nil {
		return domain.OrderStats{}, r.err
	}
	return r.stats[customerID], nil
}

type stubDedup struct {
	seen map[string]bool
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) IsDuplicate(_ context.Context, customerID, orderID string) (bool, error) {
	return d.seen[customerID+"/"+orderID], nil
}

func (d *stubDedup) Mark(_ context.Context, customerID, orderID string) error {
	d.seen[customerID+"/"+orderID] = true
	return nil
}

func TestStatsService_RecomputesAggregates(t *testing.T) {
	users := newStubUserRepo()
	created, _ := users.Create(context.Background(), &domain.User{Email: "a@x.com"})

	placed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	orders := &stubOrderRepo{stats: map[string]domain.OrderStats{
		created.ID: {TotalAmount: 250, OrderCount: 3, LastOrderID: "order_3", LastOrderDate: &placed},
	}}

	svc := NewStatsService(users, orders, newStubDedup(), zerolog.Nop())
	err := svc.Process(context.Background(), ports.OrderEventInput{
		OrderID:    "order_3",
		CustomerID: created.ID,
		Total:      100,
		PlacedAt:   placed,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := users.users[created.ID].Stats
	if got.TotalAmount != 250 || got.OrderCount != 3 || got.LastOrderID != "order_3" {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestStatsService_SkipsDuplicates(t *testing.T) {
	users := newStubUserRepo()
	created, _ := users.Create(context.Background(), &domain.User{Email: "a@x.com"})

	orders := &stubOrderRepo{stats: map[string]domain.OrderStats{
		created.ID: {TotalAmount: 100, OrderCount: 1},
	}}
	dedup := newStubDedup()
	svc := NewStatsService(users, orders, dedup, zerolog.Nop())

	event := ports.OrderEventInput{OrderID: "order_1", CustomerID: created.ID, Total: 100, PlacedAt: time.Now()}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("first Process: %v", err)
	}

	// Simulate drift in the aggregate source: a duplicate must not re-apply it.
	orders.stats[created.ID] = domain.OrderStats{TotalAmount: 999, OrderCount: 9}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("duplicate Process: %v", err)
	}
	if got := users.users[created.ID].Stats.TotalAmount; got != 100 {
		t.Fatalf("duplicate event re-applied, total = %v", got)
	}
}

func TestStatsService_DropsEventsForUnknownCustomer(t *testing.T) {
	users := newStubUserRepo()
	orders := &stubOrderRepo{stats: map[string]domain.OrderStats{}}
	svc := NewStatsService(users, orders, newStubDedup(), zerolog.Nop())

	err := svc.Process(context.Background(), ports.OrderEventInput{
		OrderID:    "order_1",
		CustomerID: "ghost",
		Total:      10,
		PlacedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("event for unknown customer should be dropped, got %v", err)
	}
}

func TestStatsService_PropagatesAggregateErrors(t *testing.T) {
	users := newStubUserRepo()
	boom := errors.New("aggregation failed")
	svc := NewStatsService(users, &stubOrderRepo{err: boom}, newStubDedup(), zerolog.Nop())

	err := svc.Process(context.Background(), ports.OrderEventInput{
		OrderID:    "order_1",
		CustomerID: "user_1",
		Total:      10,
		PlacedAt:   time.Now(),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected aggregation error, got %v", err)
	}
}
