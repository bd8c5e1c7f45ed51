package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/businessday"
	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
)

// OrderTransitioner is the slice of the order service the staff endpoints
// need, stubbed out in handler tests.
type OrderTransitioner interface {
	Transition(ctx context.Context, orderID uint64, to model.OrderStatus) (*model.Order, error)
	EstimatePrep(order *model.Order) int
}

// StaffOrderHandler serves the kitchen/floor order board.
type StaffOrderHandler struct {
	Svc    OrderTransitioner
	Orders *repository.OrderRepo
	Days   businessday.Resolver
}

// ListOrders handles GET /v1/staff/orders. Without a ?day=YYYY-MM-DD it
// shows the current trading day, so a shift working past midnight still
// sees tonight's orders. ?status filters to one lifecycle state.
func (h *StaffOrderHandler) ListOrders(c echo.Context) error {
	day := c.QueryParam("day")
	if day == "" {
		day = h.Days.Date(time.Now())
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		return badRequest(c, "day must be YYYY-MM-DD")
	}

	var status *model.OrderStatus
	if s := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); s != "" {
		st := model.OrderStatus(s)
		if !model.ValidOrderStatus(st) {
			return badRequest(c, "unknown status "+s)
		}
		status = &st
	}

	orders, err := h.Orders.ListByBusinessDay(c.Request().Context(), day, status)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"business_day": day, "orders": orders})
}

// GetOrder handles GET /v1/staff/orders/:id with full line items and the
// preparation estimate.
func (h *StaffOrderHandler) GetOrder(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	order, err := h.Orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"order":            order,
		"est_prep_minutes": h.Svc.EstimatePrep(order),
	})
}

// UpdateStatus handles PATCH /v1/staff/orders/:id/status. Completing an
// order also releases its table to CLEANING; cancelling frees the table.
// Disallowed transitions come back as 409.
func (h *StaffOrderHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	status := model.OrderStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if status == "" {
		return badRequest(c, "status is required")
	}

	order, err := h.Svc.Transition(c.Request().Context(), id, status)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
