package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weblarek/commerce-system/internal/api/metrics"
	"github.com/weblarek/commerce-system/internal/core/ports"
)

// CookieSettings controls how the refresh token cookie is written. The cookie
// is always HTTP-only and SameSite Lax; Secure is off only in development.
type CookieSettings struct {
	Name   string
	Path   string
	Secure bool
}

// AuthHandler exposes the session endpoints.
type AuthHandler struct {
	sessions ports.SessionService
	cookie   CookieSettings
}

func NewAuthHandler(sessions ports.SessionService, cookie CookieSettings) *AuthHandler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{sessions: sessions, cookie: cookie}
}

// Register handles POST /auth/register.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	h.setRefreshCookie(c, session.RefreshToken, session.RefreshExpiry)
	return c.JSON(http.StatusCreated, sessionResponse{
		Success:     true,
		User:        session.User,
		AccessToken: session.AccessToken,
	})
}

// Login handles POST /auth/login.
//
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.setRefreshCookie(c, session.RefreshToken, session.RefreshExpiry)
	return c.JSON(http.StatusOK, sessionResponse{
		Success:     true,
		User:        session.User,
		AccessToken: session.AccessToken,
	})
}

// Logout handles POST /auth/logout. Consumes the refresh cookie and expires it.
//
// @Summary      Log out the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  successResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context(), h.refreshCookieValue(c)); err != nil {
		metrics.LogoutsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.LogoutsTotal.WithLabelValues("success").Inc()

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// Refresh handles POST /auth/token (and the legacy GET alias). Rotates the
// refresh token: the presented one is consumed, a new pair is issued.
//
// @Summary      Rotate the refresh token and mint a new access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	session, err := h.sessions.Refresh(c.Request().Context(), h.refreshCookieValue(c))
	if err != nil {
		metrics.TokenRotationsTotal.WithLabelValues("rejected").Inc()
		return err
	}
	metrics.TokenRotationsTotal.WithLabelValues("success").Inc()

	h.setRefreshCookie(c, session.RefreshToken, session.RefreshExpiry)
	return c.JSON(http.StatusOK, sessionResponse{
		Success:     true,
		User:        session.User,
		AccessToken: session.AccessToken,
	})
}

// CurrentUser handles GET /auth/user.
//
// @Summary      Get the authenticated account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	identity, err := currentUser(c)
	if err != nil {
		return err
	}

	// Re-read the store: the account may have been deleted after the access
	// token was issued.
	user, err := h.sessions.CurrentUser(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
}

// CurrentUserRoles handles GET /auth/user/roles.
//
// @Summary      Get the authenticated account's roles
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  string
// @Failure      401  {object}  errorResponse
// @Router       /auth/user/roles [get]
func (h *AuthHandler) CurrentUserRoles(c echo.Context) error {
	identity, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.sessions.CurrentUser(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Roles)
}

// UpdateProfile handles PATCH /auth/me. Only name and email are mutable
// through this endpoint; roles never are.
//
// @Summary      Update the authenticated account's profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/me [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identity, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.sessions.UpdateProfile(c.Request().Context(), identity.ID, ports.ProfilePatch{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
}

func (h *AuthHandler) refreshCookieValue(c echo.Context) string {
	cookie, err := c.Cookie(h.cookie.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, value string, expiry time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     h.cookie.Path,
		Expires:  expiry,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
