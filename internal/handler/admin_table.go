package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
	"qrmenu-backend/internal/utils"
)

// AdminTableHandler manages the dining room layout. Creating a table
// mints the opaque code that goes on its QR sticker.
type AdminTableHandler struct {
	Tables *repository.TableRepo
}

type tableReq struct {
	Number   int    `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
}

func (r *tableReq) validate() string {
	if r.Number < 1 {
		return "number must be at least 1"
	}
	if r.Capacity < 1 {
		return "capacity must be at least 1"
	}
	r.Location = strings.TrimSpace(r.Location)
	return ""
}

// Create handles POST /v1/admin/tables.
func (h *AdminTableHandler) Create(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}

	code, err := utils.NewTableCode()
	if err != nil {
		return respondErr(c, err)
	}
	t := &model.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Location: req.Location,
		QRCode:   code,
		Status:   model.TableEmpty,
	}
	if err := h.Tables.Create(c.Request().Context(), t); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/admin/tables/:id. The QR code and status are not
// editable here; the code is fixed for the sticker's lifetime and status
// belongs to the floor board.
func (h *AdminTableHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}

	t, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	t.Number = req.Number
	t.Capacity = req.Capacity
	t.Location = req.Location
	if err := h.Tables.Update(c.Request().Context(), t); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
