package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weblarek/commerce-system/internal/core/ports"
)

// CustomerHandler exposes the admin-only customer management endpoints.
// Routes using it must be gated by RequireRole(admin).
type CustomerHandler struct {
	customers ports.CustomerService
}

func NewCustomerHandler(customers ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// List handles GET /customers.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listCustomersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	var q listCustomersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	filter := ports.ListUsersFilter{
		Page:            q.Page,
		Limit:           q.Limit,
		SortField:       q.SortField,
		SortDesc:        q.SortOrder != "asc",
		Search:          q.Search,
		TotalAmountFrom: q.TotalAmountFrom,
		TotalAmountTo:   q.TotalAmountTo,
		OrderCountFrom:  q.OrderCountFrom,
		OrderCountTo:    q.OrderCountTo,
	}

	var err error
	if filter.RegisteredFrom, err = parseDate(q.RegistrationDateFrom, false); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registrationDateFrom")
	}
	if filter.RegisteredTo, err = parseDate(q.RegistrationDateTo, true); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registrationDateTo")
	}
	if filter.LastOrderFrom, err = parseDate(q.LastOrderDateFrom, false); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lastOrderDateFrom")
	}
	if filter.LastOrderTo, err = parseDate(q.LastOrderDateTo, true); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lastOrderDateTo")
	}

	result, err := h.customers.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]customerResponse, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, toCustomerResponse(it))
	}
	return c.JSON(http.StatusOK, listCustomersResponse{
		Success:    true,
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get handles GET /customers/:id.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  getCustomerResponse
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	summary, err := h.customers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, getCustomerResponse{
		Success:  true,
		Customer: toCustomerResponse(*summary),
	})
}

// UpdateRoles handles PATCH /customers/:id/roles, the audited role-change
// operation. Profile updates cannot reach roles.
//
// @Summary      Replace a customer's roles
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Customer id"
// @Param        body  body      updateRolesRequest  true  "New role set"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /customers/{id}/roles [patch]
func (h *CustomerHandler) UpdateRoles(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateRolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.customers.UpdateRoles(c.Request().Context(), actor.ID, c.Param("id"), req.Roles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
}

// Delete handles DELETE /customers/:id.
//
// @Summary      Delete a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  successResponse
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.customers.Delete(c.Request().Context(), actor.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func toCustomerResponse(s ports.CustomerSummary) customerResponse {
	return customerResponse{
		PublicUser: s.User,
		Stats: customerStatsResponse{
			TotalAmount:   s.Stats.TotalAmount,
			OrderCount:    s.Stats.OrderCount,
			LastOrderID:   s.Stats.LastOrderID,
			LastOrderDate: s.Stats.LastOrderDate,
		},
	}
}

// parseDate accepts a YYYY-MM-DD query value. endOfDay shifts "to" bounds to
// the last instant of the day so the range is inclusive.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
