package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/weblarek/commerce-system/internal/core/domain"
	"github.com/weblarek/commerce-system/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// allowed sort fields for the customer listing; anything else falls back to
// registration date.
var customerSortFields = map[string]struct{}{
	"created_at":      {},
	"name":            {},
	"total_amount":    {},
	"order_count":     {},
	"last_order_date": {},
}

// CustomerService implements the admin-only customer management operations.
type CustomerService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewCustomerService(repo ports.UserRepository, log zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, log: log}
}

func (s *CustomerService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListCustomersResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if _, ok := customerSortFields[filter.SortField]; !ok {
		filter.SortField = "created_at"
		filter.SortDesc = true
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	items := make([]ports.CustomerSummary, 0, len(users))
	for _, u := range users {
		items = append(items, ports.CustomerSummary{User: u.Public(), Stats: u.Stats})
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListCustomersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *CustomerService) Get(ctx context.Context, userID string) (*ports.CustomerSummary, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.CustomerSummary{User: user.Public(), Stats: user.Stats}, nil
}

// UpdateRoles replaces a customer's role set. This is the only path that can
// change roles, and every change is logged with the acting admin for audit.
func (s *CustomerService) UpdateRoles(ctx context.Context, actorID, userID string, roles []domain.Role) (domain.PublicUser, error) {
	if len(roles) == 0 {
		return domain.PublicUser{}, fmt.Errorf("%w: at least one role is required", domain.ErrValidation)
	}
	for _, r := range roles {
		if !r.Valid() {
			return domain.PublicUser{}, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, r)
		}
	}

	user, err := s.repo.UpdateRoles(ctx, userID, roles)
	if err != nil {
		return domain.PublicUser{}, err
	}

	s.log.Info().
		Str("actor_id", actorID).
		Str("user_id", userID).
		Interface("roles", roles).
		Msg("roles changed")

	return user.Public(), nil
}

func (s *CustomerService) Delete(ctx context.Context, actorID, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().
		Str("actor_id", actorID).
		Str("user_id", userID).
		Msg("customer deleted")
	return nil
}
