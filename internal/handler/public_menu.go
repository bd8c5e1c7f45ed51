package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/businessday"
	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints customers hit
// after scanning a table's QR code.
type PublicHandler struct {
	Categories *repository.CategoryRepo
	Menu       *repository.MenuRepo
	Tables     *repository.TableRepo
	Discounts  *repository.DiscountRepo
	Days       businessday.Resolver
	// DefaultCutoff backs the discount state before admins save settings.
	DefaultCutoff string
}

type menuCategory struct {
	model.Category
	Items []model.MenuItem `json:"items"`
}

type discountState struct {
	Active  bool   `json:"active"`
	Percent int    `json:"percent"`
	Cutoff  string `json:"cutoff"`
}

// GetMenu returns all categories with their available items plus the
// current discount-window state. Unavailable items are omitted entirely;
// the customer menu never shows what cannot be ordered.
func (h *PublicHandler) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return respondErr(c, err)
	}
	items, err := h.Menu.List(ctx, nil, true)
	if err != nil {
		return respondErr(c, err)
	}
	byCat := make(map[uint64][]model.MenuItem, len(cats))
	for _, it := range items {
		byCat[it.CategoryID] = append(byCat[it.CategoryID], it)
	}

	out := make([]menuCategory, 0, len(cats))
	for _, cat := range cats {
		out = append(out, menuCategory{Category: cat, Items: byCat[cat.ID]})
	}

	discount, err := h.discountNow(c)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"categories": out,
		"discount":   discount,
	})
}

// GetTable resolves a QR code to its table so the frontend can show the
// table number before checkout. The current-order reference is not
// exposed to guests.
func (h *PublicHandler) GetTable(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return badRequest(c, "table code required")
	}
	t, err := h.Tables.GetByQRCode(c.Request().Context(), code)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"number":   t.Number,
		"capacity": t.Capacity,
		"location": t.Location,
		"status":   t.Status,
	})
}

// discountNow evaluates the configured discount window at the current
// instant.
func (h *PublicHandler) discountNow(c echo.Context) (discountState, error) {
	d, err := h.Discounts.Get(c.Request().Context(), h.DefaultCutoff)
	if err != nil {
		return discountState{}, err
	}
	state := discountState{Percent: d.Percent, Cutoff: d.Cutoff}
	if d.Enabled {
		cutoff, err := businessday.ParseClock(d.Cutoff)
		if err != nil {
			return discountState{}, err
		}
		state.Active = h.Days.DiscountActive(time.Now(), cutoff)
	}
	return state, nil
}
