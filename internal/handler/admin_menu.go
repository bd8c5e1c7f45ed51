package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/media"
	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
)

// maxImageBytes caps menu image uploads before they are forwarded to the
// media host.
const maxImageBytes = 8 << 20

// AdminMenuHandler manages menu items, including image uploads that are
// passed through to the external media host.
type AdminMenuHandler struct {
	Menu   *repository.MenuRepo
	Images media.Uploader
}

type menuItemReq struct {
	CategoryID  uint64  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"price_cents"`
	Available   *bool   `json:"available"`
	PrepMinutes int     `json:"prep_minutes"`
	ImageURL    *string `json:"image_url"`
}

func (r *menuItemReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name is required"
	}
	if r.CategoryID == 0 {
		return "category_id is required"
	}
	if r.PriceCents < 0 {
		return "price_cents must not be negative"
	}
	if r.PrepMinutes < 0 {
		return "prep_minutes must not be negative"
	}
	return ""
}

// Create handles POST /v1/admin/menu-items.
func (h *AdminMenuHandler) Create(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	it := &model.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Available:   available,
		PrepMinutes: req.PrepMinutes,
		ImageURL:    req.ImageURL,
	}
	if err := h.Menu.Create(c.Request().Context(), it); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, it)
}

// List handles GET /v1/admin/menu-items?category_id=. Unlike the public
// menu it includes unavailable items.
func (h *AdminMenuHandler) List(c echo.Context) error {
	var categoryID *uint64
	if s := c.QueryParam("category_id"); s != "" {
		id, ok := parseID(s)
		if !ok {
			return badRequest(c, "invalid category_id")
		}
		categoryID = &id
	}
	items, err := h.Menu.List(c.Request().Context(), categoryID, false)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/admin/menu-items/:id.
func (h *AdminMenuHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	it, err := h.Menu.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

// Update handles PUT /v1/admin/menu-items/:id.
func (h *AdminMenuHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	it := &model.MenuItem{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Available:   available,
		PrepMinutes: req.PrepMinutes,
		ImageURL:    req.ImageURL,
	}
	if err := h.Menu.Update(c.Request().Context(), it); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

// SetAvailability handles PATCH /v1/admin/menu-items/:id/availability,
// the 86-an-item switch the kitchen uses during service.
func (h *AdminMenuHandler) SetAvailability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var body struct {
		Available *bool `json:"available"`
	}
	if err := c.Bind(&body); err != nil || body.Available == nil {
		return badRequest(c, "available is required")
	}
	if err := h.Menu.SetAvailability(c.Request().Context(), id, *body.Available); err != nil {
		return respondErr(c, err)
	}
	it, err := h.Menu.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

// UploadImage handles POST /v1/admin/menu-items/:id/image. The multipart
// file is forwarded to the media host and the returned URL is stored on
// the item; the server never keeps image bytes.
func (h *AdminMenuHandler) UploadImage(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	it, err := h.Menu.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}
	if fh.Size > maxImageBytes {
		return badRequest(c, "image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return respondErr(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return respondErr(c, err)
	}
	if len(data) > maxImageBytes {
		return badRequest(c, "image too large")
	}

	url, err := h.Images.Upload(c.Request().Context(), fh.Filename, data)
	if err != nil {
		return respondErr(c, err)
	}
	it.ImageURL = &url
	if err := h.Menu.Update(c.Request().Context(), it); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

// Delete handles DELETE /v1/admin/menu-items/:id. Order history keeps its
// price/name snapshots, so this never rewrites past orders.
func (h *AdminMenuHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Menu.Delete(c.Request().Context(), id); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
