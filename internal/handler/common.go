// Package handler contains the HTTP handlers. Handlers bind and validate
// input, delegate to repositories or services, and translate sentinel
// errors into the error taxonomy: validation problems name the offending
// field with a 400, missing records are 404, state/uniqueness conflicts
// are 409, and everything else is an opaque 500.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"qrmenu-backend/internal/logger"
	"qrmenu-backend/internal/repository"
	"qrmenu-backend/internal/service"
)

// getUserID extracts the authenticated user's ID from the echo context,
// tolerating the numeric types JSON claims decode into.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// parseID parses a numeric ID from a query parameter.
func parseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	return id, err == nil && id != 0
}

// respondErr maps an error to its HTTP response.
func respondErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrMenuItemNotFound),
		errors.Is(err, repository.ErrTableNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})

	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrTableOccupied),
		errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrCategoryExists),
		errors.Is(err, repository.ErrTableNumberExists),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})

	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrBadQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	logger.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// badRequest is shorthand for a field-level validation failure.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
