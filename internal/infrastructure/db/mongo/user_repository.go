package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/weblarek/commerce-system/internal/core/domain"
	"github.com/weblarek/commerce-system/internal/core/ports"
)

const usersCollection = "users"

// maxRefreshTokens caps the fingerprint records kept per user. Every push
// evicts the oldest entries beyond the cap, so a multi-device or
// high-frequency-refresh account cannot grow its token set without bound.
const maxRefreshTokens = 10

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

type mongoTokenRecord struct {
	Hash string `bson:"hash"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []string           `bson:"roles"`
	Tokens       []mongoTokenRecord `bson:"tokens"`
	TotalAmount  float64            `bson:"total_amount"`
	OrderCount   int64              `bson:"order_count"`
	LastOrderID  string             `bson:"last_order_id,omitempty"`
	LastOrderAt  *time.Time         `bson:"last_order_date,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Roles:        rolesToStrings(user.Roles),
		Tokens:       []mongoTokenRecord{},
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.RefreshTokens = nil
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// PushRefreshToken appends a fingerprint record, evicting the oldest entries
// beyond maxRefreshTokens in the same update.
func (r *UserRepository) PushRefreshToken(ctx context.Context, userID string, hash string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{
		"$push": bson.M{
			"tokens": bson.M{
				"$each":  []mongoTokenRecord{{Hash: hash}},
				"$slice": -maxRefreshTokens,
			},
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("push refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// PullRefreshToken removes exactly one matching fingerprint record. The
// filter requires the record to be present, so two concurrent consumers of
// the same token race for a single conditional update: one matches, the
// other gets domain.ErrInvalidToken.
func (r *UserRepository) PullRefreshToken(ctx context.Context, userID string, hash string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrInvalidToken
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "tokens.hash": hash},
		bson.M{
			"$pull": bson.M{"tokens": bson.M{"hash": hash}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("pull refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}

	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) UpdateRoles(ctx context.Context, userID string, roles []domain.Role) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"roles":      rolesToStrings(roles),
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update roles: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) UpdateOrderStats(ctx context.Context, userID string, stats domain.OrderStats) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{
			"total_amount":    stats.TotalAmount,
			"order_count":     stats.OrderCount,
			"last_order_id":   stats.LastOrderID,
			"last_order_date": stats.LastOrderDate,
		},
	})
	if err != nil {
		return fmt.Errorf("update order stats: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	query := bson.M{}

	if rng := dateRange(filter.RegisteredFrom, filter.RegisteredTo); rng != nil {
		query["created_at"] = rng
	}
	if rng := dateRange(filter.LastOrderFrom, filter.LastOrderTo); rng != nil {
		query["last_order_date"] = rng
	}
	if rng := numberRange(filter.TotalAmountFrom, filter.TotalAmountTo); rng != nil {
		query["total_amount"] = rng
	}
	if filter.OrderCountFrom != nil || filter.OrderCountTo != nil {
		rng := bson.M{}
		if filter.OrderCountFrom != nil {
			rng["$gte"] = *filter.OrderCountFrom
		}
		if filter.OrderCountTo != nil {
			rng["$lte"] = *filter.OrderCountTo
		}
		query["order_count"] = rng
	}
	if filter.Search != "" && len(filter.Search) < 100 {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	order := 1
	if filter.SortDesc {
		order = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortField, Value: order}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, r := range mu.Roles {
		roles = append(roles, domain.Role(r))
	}
	tokens := make([]domain.TokenRecord, 0, len(mu.Tokens))
	for _, t := range mu.Tokens {
		tokens = append(tokens, domain.TokenRecord{Hash: t.Hash})
	}
	return &domain.User{
		ID:            mu.ID.Hex(),
		Email:         mu.Email,
		Name:          mu.Name,
		PasswordHash:  mu.PasswordHash,
		Roles:         roles,
		RefreshTokens: tokens,
		Stats: domain.OrderStats{
			TotalAmount:   mu.TotalAmount,
			OrderCount:    mu.OrderCount,
			LastOrderID:   mu.LastOrderID,
			LastOrderDate: mu.LastOrderAt,
		},
		CreatedAt: mu.CreatedAt,
		UpdatedAt: mu.UpdatedAt,
	}
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func dateRange(from, to time.Time) bson.M {
	rng := bson.M{}
	if !from.IsZero() {
		rng["$gte"] = from
	}
	if !to.IsZero() {
		rng["$lte"] = to
	}
	if len(rng) == 0 {
		return nil
	}
	return rng
}

func numberRange(from, to *float64) bson.M {
	rng := bson.M{}
	if from != nil {
		rng["$gte"] = *from
	}
	if to != nil {
		rng["$lte"] = *to
	}
	if len(rng) == 0 {
		return nil
	}
	return rng
}
