package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-inventory/internal/handler"
	"github.com/iliyamo/flight-inventory/internal/middleware"
	"github.com/iliyamo/flight-inventory/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under
// /v1/my-bookings.  All routes require a valid JWT and the CUSTOMER role.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/my-bookings",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	g.POST("", h.CreateBooking)
	g.GET("", h.ListBookings)
	g.GET("/:booking_id", h.GetBooking)
	g.GET("/:booking_id/tickets", h.BookingTickets)
	g.DELETE("/:booking_id", h.CancelBooking)
}
