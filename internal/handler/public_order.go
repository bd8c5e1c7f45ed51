package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
	"qrmenu-backend/internal/service"
)

// OrderCreator is the slice of the order service the public endpoints
// need. It exists as an interface so handler tests can stub it out.
type OrderCreator interface {
	Create(ctx context.Context, in service.CreateOrderInput) (*model.Order, error)
	EstimatePrep(order *model.Order) int
}

// PublicOrderHandler serves anonymous checkout and order tracking.
type PublicOrderHandler struct {
	Svc    OrderCreator
	Orders *repository.OrderRepo
	Tables *repository.TableRepo
}

type orderLineReq struct {
	MenuItemID   uint64 `json:"menu_item_id"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions"`
}

type createOrderReq struct {
	Items         []orderLineReq `json:"items"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
}

// CreateOrder handles POST /v1/t/:code/orders: checkout against the table
// identified by the QR code. Rejection is all-or-nothing; a single
// unavailable item fails the whole order with 409 and nothing persists.
func (h *PublicOrderHandler) CreateOrder(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return badRequest(c, "table code required")
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if len(req.Items) == 0 {
		return badRequest(c, "items is required")
	}

	table, err := h.Tables.GetByQRCode(c.Request().Context(), code)
	if err != nil {
		return respondErr(c, err)
	}

	in := service.CreateOrderInput{
		TableID:       table.ID,
		CustomerName:  optional(req.CustomerName),
		CustomerPhone: optional(req.CustomerPhone),
	}
	for _, l := range req.Items {
		in.Lines = append(in.Lines, service.OrderLine{
			MenuItemID:   l.MenuItemID,
			Quantity:     l.Quantity,
			Instructions: optional(l.Instructions),
		})
	}

	order, err := h.Svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order":            order,
		"est_prep_minutes": h.Svc.EstimatePrep(order),
	})
}

// TrackOrder handles GET /v1/orders/:reference: anonymous tracking by the
// opaque reference returned at checkout.
func (h *PublicOrderHandler) TrackOrder(c echo.Context) error {
	ref := strings.TrimSpace(c.Param("reference"))
	if ref == "" {
		return badRequest(c, "reference required")
	}
	order, err := h.Orders.GetByReference(c.Request().Context(), ref)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"order":            order,
		"est_prep_minutes": h.Svc.EstimatePrep(order),
	})
}

// optional converts an empty string to a NULL-able nil pointer.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
