package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"qrmenu-backend/internal/model"
	"qrmenu-backend/internal/repository"
	"qrmenu-backend/internal/utils"
)

// ReservationHandler covers the staff-side reservation book.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
}

type reservationReq struct {
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	PartySize     int     `json:"party_size"`
	ReservedAt    string  `json:"reserved_at"` // RFC 3339
	TableID       *uint64 `json:"table_id"`
	Notes         *string `json:"notes"`
}

func (r *reservationReq) validate() (time.Time, string) {
	if strings.TrimSpace(r.CustomerName) == "" || strings.TrimSpace(r.CustomerPhone) == "" {
		return time.Time{}, "customer_name and customer_phone are required"
	}
	if r.PartySize < 1 {
		return time.Time{}, "party_size must be at least 1"
	}
	at, err := time.Parse(time.RFC3339, r.ReservedAt)
	if err != nil {
		return time.Time{}, "reserved_at must be RFC 3339"
	}
	return at, ""
}

// Create handles POST /v1/staff/reservations. The generated reservation
// number is the code quoted back to the customer.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	at, msg := req.validate()
	if msg != "" {
		return badRequest(c, msg)
	}

	res := &model.Reservation{
		Number:        utils.NewReservationNumber(time.Now()),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		PartySize:     req.PartySize,
		ReservedAt:    at,
		Status:        model.ReservationPending,
		TableID:       req.TableID,
		Notes:         req.Notes,
	}
	if err := h.Reservations.Create(c.Request().Context(), res); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// List handles GET /v1/staff/reservations?from=&to=&status=. Defaults to
// the next seven days when no range is given.
func (h *ReservationHandler) List(c echo.Context) error {
	now := time.Now().UTC()
	from, to := now.Truncate(24*time.Hour), now.Add(7*24*time.Hour)

	if s := c.QueryParam("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return badRequest(c, "from must be YYYY-MM-DD")
		}
		from = t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return badRequest(c, "to must be YYYY-MM-DD")
		}
		to = t
	}
	if !to.After(from) {
		return badRequest(c, "to must be after from")
	}

	var status *model.ReservationStatus
	if s := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); s != "" {
		st := model.ReservationStatus(s)
		if !model.ValidReservationStatus(st) {
			return badRequest(c, "unknown status "+s)
		}
		status = &st
	}

	list, err := h.Reservations.List(c.Request().Context(), from, to, status)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Get handles GET /v1/staff/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Update handles PUT /v1/staff/reservations/:id for customer-editable
// fields. Status moves go through UpdateStatus instead.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	at, msg := req.validate()
	if msg != "" {
		return badRequest(c, msg)
	}

	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	res.CustomerName = strings.TrimSpace(req.CustomerName)
	res.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	res.PartySize = req.PartySize
	res.ReservedAt = at
	res.TableID = req.TableID
	res.Notes = req.Notes

	if err := h.Reservations.Update(c.Request().Context(), res); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateStatus handles PATCH /v1/staff/reservations/:id/status.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
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
	status := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if !model.ValidReservationStatus(status) {
		return badRequest(c, "unknown status "+body.Status)
	}

	if err := h.Reservations.UpdateStatus(c.Request().Context(), id, status); err != nil {
		return respondErr(c, err)
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
