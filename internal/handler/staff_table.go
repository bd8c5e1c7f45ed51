package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
)

// StaffTableHandler serves the floor board: live table statuses and the
// manual status overrides staff apply after bussing a table.
type StaffTableHandler struct {
	Tables *repository.TableRepo
}

// ListTables handles GET /v1/staff/tables.
func (h *StaffTableHandler) ListTables(c echo.Context) error {
	tables, err := h.Tables.List(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// UpdateStatus handles PATCH /v1/staff/tables/:id/status. A table that is
// still linked to an open order cannot be moved by hand; the order
// lifecycle owns it until the order reaches a terminal state.
func (h *StaffTableHandler) UpdateStatus(c echo.Context) error {
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
	status := model.TableStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if !model.ValidTableStatus(status) {
		return badRequest(c, "unknown status "+body.Status)
	}

	if err := h.Tables.SetStatus(c.Request().Context(), id, status); err != nil {
		return respondErr(c, err)
	}
	table, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, table)
}
