package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weblarek/commerce-system/internal/core/ports"
)

type orderEventRequest struct {
	OrderID    string    `json:"order_id"    validate:"required"`
	CustomerID string    `json:"customer_id" validate:"required"`
	Total      float64   `json:"total"       validate:"required,gte=0"`
	PlacedAt   time.Time `json:"placed_at"   validate:"required"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// OrderEventDispatcher is the interface the handler uses to enqueue events.
type OrderEventDispatcher interface {
	Enqueue(event ports.OrderEventInput)
	EnqueueBatch(events []ports.OrderEventInput)
}

// OrderEventHandler ingests order-placed events from the order subsystem so
// the stats recompute can update customer aggregates asynchronously.
type OrderEventHandler struct {
	dispatcher OrderEventDispatcher
}

func NewOrderEventHandler(dispatcher OrderEventDispatcher) *OrderEventHandler {
	return &OrderEventHandler{dispatcher: dispatcher}
}

// Receive handles POST /internal/order-events. Enqueues one event, returns 202.
//
// @Summary      Ingest a single order event
// @Tags         order-events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      orderEventRequest  true  "Order event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /internal/order-events [post]
func (h *OrderEventHandler) Receive(c echo.Context) error {
	var req orderEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toOrderEventInput(req))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveBatch handles POST /internal/order-events/batch.
//
// @Summary      Ingest a batch of order events
// @Tags         order-events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []orderEventRequest  true  "Array of order events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /internal/order-events/batch [post]
func (h *OrderEventHandler) ReceiveBatch(c echo.Context) error {
	var reqs []orderEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.OrderEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toOrderEventInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}

func toOrderEventInput(r orderEventRequest) ports.OrderEventInput {
	return ports.OrderEventInput{
		OrderID:    r.OrderID,
		CustomerID: r.CustomerID,
		Total:      r.Total,
		PlacedAt:   r.PlacedAt,
	}
}
