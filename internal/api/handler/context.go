package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weblarek/commerce-system/internal/api/middleware"
	"github.com/weblarek/commerce-system/internal/core/domain"
)

// currentUser extracts the identity injected by the Auth middleware and
// fast-fails before any service call. Its presence proves the middleware ran;
// a handler reached without it is a wiring bug, answered with 401 rather
// than a panic.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.UserFromContext(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
