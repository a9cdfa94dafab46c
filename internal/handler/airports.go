package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-inventory/internal/inventory"
)

// Airports handles GET /v1/airports.  No authentication is required so
// clients can fill origin and destination pickers.
func Airports(inv *inventory.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := inv.ListAirports(c.Request().Context())
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, echo.Map{"airports": orEmpty(list)})
	}
}
