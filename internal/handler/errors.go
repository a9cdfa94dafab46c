package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/middleware"
)

// statusFor maps an inventory error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrValidation), errors.Is(err, inventory.ErrDeadlineExpired):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// httpError converts an inventory error into an *echo.HTTPError that
// middleware.ErrorHandler renders as {"error": ...}.  Unknown errors are
// returned as is and end up as an opaque 500.
func httpError(err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		return err
	}
	return echo.NewHTTPError(code, err.Error())
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return id, nil
}

// currentUser returns the caller's id set by JWTAuth.
func currentUser(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

// orEmpty keeps empty lists rendering as [] instead of null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
