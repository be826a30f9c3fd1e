package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/weblarek/commerce-system/internal/core/domain"
	"github.com/weblarek/commerce-system/internal/core/ports"
)

func TestCustomerService_UpdateRolesValidation(t *testing.T) {
	repo := newStubUserRepo()
	created, _ := repo.Create(context.Background(), &domain.User{Email: "a@x.com", Roles: []domain.Role{domain.RoleCustomer}})
	svc := NewCustomerService(repo, zerolog.Nop())

	if _, err := svc.UpdateRoles(context.Background(), "admin_1", created.ID, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty role set accepted: %v", err)
	}
	if _, err := svc.UpdateRoles(context.Background(), "admin_1", created.ID, []domain.Role{"superuser"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown role accepted: %v", err)
	}

	updated, err := svc.UpdateRoles(context.Background(), "admin_1", created.ID, []domain.Role{domain.RoleCustomer, domain.RoleAdmin})
	if err != nil {
		t.Fatalf("UpdateRoles: %v", err)
	}
	if len(updated.Roles) != 2 {
		t.Fatalf("roles = %v", updated.Roles)
	}
}

func TestCustomerService_DeleteUnknown(t *testing.T) {
	svc := NewCustomerService(newStubUserRepo(), zerolog.Nop())
	if err := svc.Delete(context.Background(), "admin_1", "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCustomerService_ListClampsPaging(t *testing.T) {
	repo := newStubUserRepo()
	_, _ = repo.Create(context.Background(), &domain.User{Email: "a@x.com"})
	svc := NewCustomerService(repo, zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListUsersFilter{Page: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if result.Page != 1 || result.Limit != maxPageLimit {
		t.Fatalf("page=%d limit=%d, want 1/%d", result.Page, result.Limit, maxPageLimit)
	}
}
