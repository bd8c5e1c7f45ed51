package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/businessday"
	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
)

// AdminDiscountHandler manages the early-bird discount settings row.
type AdminDiscountHandler struct {
	Discounts     *repository.DiscountRepo
	DefaultCutoff string
}

// Get handles GET /v1/admin/discount.
func (h *AdminDiscountHandler) Get(c echo.Context) error {
	d, err := h.Discounts.Get(c.Request().Context(), h.DefaultCutoff)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Update handles PUT /v1/admin/discount. The cutoff must be a valid HH:MM
// clock time; orders placed strictly before it are flagged as discounted
// on the public menu.
func (h *AdminDiscountHandler) Update(c echo.Context) error {
	var body struct {
		Enabled bool   `json:"enabled"`
		Percent int    `json:"percent"`
		Cutoff  string `json:"cutoff"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	if body.Percent < 0 || body.Percent > 100 {
		return badRequest(c, "percent must be 0-100")
	}
	if _, err := businessday.ParseClock(body.Cutoff); err != nil {
		return badRequest(c, "cutoff must be HH:MM")
	}

	d := &model.Discount{ID: 1, Enabled: body.Enabled, Percent: body.Percent, Cutoff: body.Cutoff}
	if err := h.Discounts.Upsert(c.Request().Context(), d); err != nil {
		return respondErr(c, err)
	}
	out, err := h.Discounts.Get(c.Request().Context(), h.DefaultCutoff)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
