package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks for order events backed by Redis.
// Key format: order_dedup:<customer_id>:<order_id>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this order event has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, customerID, orderID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(customerID, orderID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this order event has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, customerID, orderID string) error {
	return d.client.Set(ctx, d.key(customerID, orderID), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(customerID, orderID string) string {
	return fmt.Sprintf("order_dedup:%s:%s", customerID, orderID)
}
