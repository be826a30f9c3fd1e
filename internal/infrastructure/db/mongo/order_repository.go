package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

const ordersCollection = "orders"

// OrderRepository reads the orders collection owned by the order subsystem.
// The stats recompute is its only consumer.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

// AggregateStats computes the customer's order aggregates in a single
// pipeline: total amount, order count, newest order id and date.
func (r *OrderRepository) AggregateStats(ctx context.Context, customerID string) (domain.OrderStats, error) {
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("invalid customer id %q", customerID)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"customer_id": oid}}},
		{{Key: "$sort", Value: bson.M{"created_at": 1}}},
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"total_amount":    bson.M{"$sum": "$total_amount"},
			"order_count":     bson.M{"$sum": 1},
			"last_order_date": bson.M{"$max": "$created_at"},
			"last_order_id":   bson.M{"$last": "$_id"},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("aggregate orders: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		TotalAmount   float64            `bson:"total_amount"`
		OrderCount    int64              `bson:"order_count"`
		LastOrderDate time.Time          `bson:"last_order_date"`
		LastOrderID   primitive.ObjectID `bson:"last_order_id"`
	}

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return domain.OrderStats{}, fmt.Errorf("aggregate orders: %w", err)
		}
		// No orders: zero-valued stats.
		return domain.OrderStats{}, nil
	}
	if err := cur.Decode(&row); err != nil {
		return domain.OrderStats{}, fmt.Errorf("decode order stats: %w", err)
	}

	lastDate := row.LastOrderDate
	return domain.OrderStats{
		TotalAmount:   row.TotalAmount,
		OrderCount:    row.OrderCount,
		LastOrderID:   row.LastOrderID.Hex(),
		LastOrderDate: &lastDate,
	}, nil
}
