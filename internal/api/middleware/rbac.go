package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weblarek/commerce-system/internal/core/domain"
)

// RequireRole gates a route behind a role. It must run after Auth: an
// unauthenticated request is a 401 from Auth, never a 403 from here.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !user.HasRole(role) {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
