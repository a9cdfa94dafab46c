package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func pathYear(c echo.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, badRequest("invalid year")
	}
	return year, nil
}

// Revenue handles GET /v1/my-aircrafts/revenue/:year.  The response
// holds twelve monthly totals, January first.
func (h *OwnerHandler) Revenue(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return err
	}
	year, err := pathYear(c)
	if err != nil {
		return err
	}
	months, err := h.Inv.MonthlyRevenue(c.Request().Context(), owner, year)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"year": year, "revenue": months})
}

// Popular handles GET /v1/my-aircrafts/popular/:year: for each month the
// three destinations with the most booked seats across all owners.
func (h *OwnerHandler) Popular(c echo.Context) error {
	year, err := pathYear(c)
	if err != nil {
		return err
	}
	months, err := h.Inv.PopularDestinations(c.Request().Context(), year)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"year": year, "popular": months})
}
