package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-inventory/internal/handler"
	"github.com/iliyamo/flight-inventory/internal/middleware"
	"github.com/iliyamo/flight-inventory/internal/model"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/my-aircrafts.
// The two report routes additionally go through the Redis response
// cache and the token bucket; either may be a pass-through.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string, cache, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/my-aircrafts",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	// ---- Aircraft ----
	g.POST("", o.CreateAircraft)
	g.GET("", o.ListAircraft)
	g.GET("/:aircraft_id", o.GetAircraft)
	g.PUT("/:aircraft_id", o.UpdateAircraft)
	g.DELETE("/:aircraft_id", o.DeleteAircraft)

	// ---- Flights ----
	g.POST("/:aircraft_id/flights", o.AddFlight)
	g.GET("/:aircraft_id/flights", o.ListFlights)
	g.PUT("/:aircraft_id/flights/:flight_id", o.UpdateFlightSchedule)
	g.DELETE("/:aircraft_id/flights/:flight_id", o.DeleteFlight)
	g.GET("/flights/:flight_id/tickets", o.FlightTickets)
	g.GET("/flights/:flight_id/seats", o.FlightSeats)

	// ---- Reports ----
	g.GET("/revenue/:year", o.Revenue, limit, cache)
	g.GET("/popular/:year", o.Popular, limit, cache)
}
