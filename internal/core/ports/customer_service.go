package ports

import (
	"context"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

// CustomerSummary is the admin-facing view of a customer, including the
// denormalized order aggregates. Still excludes password hash and tokens.
type CustomerSummary struct {
	User  domain.PublicUser
	Stats domain.OrderStats
}

// ListCustomersResult is a page of customers plus paging metadata.
type ListCustomersResult struct {
	Items      []CustomerSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CustomerService exposes the admin-only customer management operations.
type CustomerService interface {
	List(ctx context.Context, filter ListUsersFilter) (*ListCustomersResult, error)
	Get(ctx context.Context, userID string) (*CustomerSummary, error)
	// UpdateRoles is the audited role-change path; profile updates can never
	// touch roles.
	UpdateRoles(ctx context.Context, actorID, userID string, roles []domain.Role) (domain.PublicUser, error)
	Delete(ctx context.Context, actorID, userID string) error
}
