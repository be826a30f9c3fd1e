package ports

import (
	"context"
	"time"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

// ProfilePatch carries the allow-listed mutable profile fields. Nil means
// "leave unchanged". Roles are deliberately absent: role changes go through
// the admin-only UpdateRoles path.
type ProfilePatch struct {
	Name  *string
	Email *string
}

// ListUsersFilter carries the query parameters for the admin customer listing.
type ListUsersFilter struct {
	RegisteredFrom  time.Time
	RegisteredTo    time.Time
	LastOrderFrom   time.Time
	LastOrderTo     time.Time
	TotalAmountFrom *float64
	TotalAmountTo   *float64
	OrderCountFrom  *int64
	OrderCountTo    *int64
	Search          string // partial match on name
	SortField       string
	SortDesc        bool
	Page            int // 1-based
	Limit           int
}

// UserRepository defines persistence for user accounts and their refresh
// token records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// PushRefreshToken appends a fingerprint record to the user's token set.
	// The store caps the set; the oldest records are evicted beyond the cap.
	PushRefreshToken(ctx context.Context, userID string, hash string) error

	// PullRefreshToken removes exactly one matching fingerprint record in a
	// single conditional update. Returns domain.ErrInvalidToken when the
	// record is absent, which makes concurrent refresh/logout on the same
	// token a single-winner race.
	PullRefreshToken(ctx context.Context, userID string, hash string) error

	// UpdateProfile applies the patch and returns the updated user.
	// Email uniqueness is re-enforced at the store.
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*domain.User, error)

	// UpdateRoles replaces the user's role set. Admin-only path.
	UpdateRoles(ctx context.Context, userID string, roles []domain.Role) (*domain.User, error)

	// UpdateOrderStats writes the denormalized aggregates. Owned by the stats
	// recompute process; disjoint from all session-mutated fields.
	UpdateOrderStats(ctx context.Context, userID string, stats domain.OrderStats) error

	// List returns a page of users matching filter and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)

	Delete(ctx context.Context, userID string) error
}
