package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weblarek/commerce-system/internal/core/domain"
	"github.com/weblarek/commerce-system/internal/core/ports"
	"github.com/weblarek/commerce-system/internal/core/token"
)

// stubUsers implements ports.UserRepository; only FindByID matters here.
type stubUsers struct {
	users map[string]*domain.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUsers) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUsers) PushRefreshToken(context.Context, string, string) error { return nil }
func (s *stubUsers) PullRefreshToken(context.Context, string, string) error { return nil }
func (s *stubUsers) UpdateProfile(context.Context, string, ports.ProfilePatch) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUsers) UpdateRoles(context.Context, string, []domain.Role) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (s *stubUsers) UpdateOrderStats(context.Context, string, domain.OrderStats) error { return nil }
func (s *stubUsers) List(context.Context, ports.ListUsersFilter) ([]*domain.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUsers) Delete(context.Context, string) error { return nil }

func testCodec() *token.Codec {
	return token.NewCodec(token.Config{
		AccessSecret:  "access-secret",
		AccessTTL:     time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    time.Hour,
	})
}

func TestAuth_ValidToken(t *testing.T) {
	e := echo.New()
	user := &domain.User{ID: "user_1", Email: "alice@example.com", Roles: []domain.Role{domain.RoleAdmin}}
	codec := testCodec()
	signed, err := codec.IssueAccess(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(codec, &stubUsers{users: map[string]*domain.User{"user_1": user}})
	handler := mw(func(c echo.Context) error {
		called = true
		got := UserFromContext(c)
		if got == nil || got.ID != "user_1" || got.Email != "alice@example.com" {
			t.Fatalf("identity not attached: %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_Rejections(t *testing.T) {
	codec := testCodec()
	user := &domain.User{ID: "user_1", Email: "alice@example.com"}
	validToken, _ := codec.IssueAccess(user)
	refreshToken, _ := codec.IssueRefresh(user)

	cases := []struct {
		name   string
		header string
		users  map[string]*domain.User
	}{
		{name: "missing header"},
		{name: "wrong scheme", header: "Token abc"},
		{name: "garbage token", header: "Bearer not-a-token"},
		{name: "refresh token in auth header", header: "Bearer " + refreshToken},
		{name: "deleted account", header: "Bearer " + validToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			mw := Auth(codec, &stubUsers{users: tc.users})
			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
