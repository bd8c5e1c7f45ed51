package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
)

// AdminCategoryHandler manages menu categories.
type AdminCategoryHandler struct {
	Categories *repository.CategoryRepo
}

type categoryReq struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Create handles POST /v1/admin/categories.
func (h *AdminCategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name is required")
	}

	cat := &model.Category{Name: req.Name, SortOrder: req.SortOrder}
	if err := h.Categories.Create(c.Request().Context(), cat); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

// List handles GET /v1/admin/categories.
func (h *AdminCategoryHandler) List(c echo.Context) error {
	cats, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}

// Update handles PUT /v1/admin/categories/:id.
func (h *AdminCategoryHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name is required")
	}

	cat := &model.Category{ID: id, Name: req.Name, SortOrder: req.SortOrder}
	if err := h.Categories.Update(c.Request().Context(), cat); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// Delete handles DELETE /v1/admin/categories/:id. A category that still
// holds menu items comes back as 409.
func (h *AdminCategoryHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
