package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"qrmenu-backend/internal/logger"
	"qrmenu-backend/internal/metrics"
	"qrmenu-backend/internal/repository"
)

// defaultStaleOrderAge is how long a PENDING order may sit untouched
// before the purge treats it as abandoned and frees its table.
const defaultStaleOrderAge = 2 * time.Hour

// AdminPurgeHandler exposes the retention sweeps as admin endpoints so
// they can be driven by a cron hitting the API.
type AdminPurgeHandler struct {
	Reservations *repository.ReservationRepo
	Orders       *repository.OrderRepo
}

// PurgeReservations handles POST /v1/admin/purge/reservations: deletes
// COMPLETED reservations older than a month and CANCELLED/NO_SHOW ones
// older than a week, measured against the reservation's target date.
func (h *AdminPurgeHandler) PurgeReservations(c echo.Context) error {
	completed, cancelled, err := h.Reservations.PurgeExpired(c.Request().Context(), time.Now())
	if err != nil {
		return respondErr(c, err)
	}
	metrics.ReservationsPurged.WithLabelValues("completed").Add(float64(completed))
	metrics.ReservationsPurged.WithLabelValues("cancelled").Add(float64(cancelled))
	logger.L().Info("reservation sweep",
		zap.Int64("completed", completed), zap.Int64("cancelled", cancelled))
	return c.JSON(http.StatusOK, echo.Map{
		"completed_purged": completed,
		"cancelled_purged": cancelled,
	})
}

// PurgeStaleOrders handles POST /v1/admin/purge/orders?age_minutes=:
// deletes PENDING orders untouched for longer than the given age and
// releases their tables. Age defaults to two hours.
func (h *AdminPurgeHandler) PurgeStaleOrders(c echo.Context) error {
	age := defaultStaleOrderAge
	if s := c.QueryParam("age_minutes"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return badRequest(c, "age_minutes must be a positive integer")
		}
		age = time.Duration(n) * time.Minute
	}

	purged, err := h.Orders.PurgeStalePending(c.Request().Context(), time.Now().Add(-age))
	if err != nil {
		return respondErr(c, err)
	}
	logger.L().Info("stale order purge", zap.Int64("purged", purged), zap.Duration("age", age))
	return c.JSON(http.StatusOK, echo.Map{"purged": purged})
}
