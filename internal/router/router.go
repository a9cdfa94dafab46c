package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-inventory/internal/handler"
	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/middleware"
	"github.com/iliyamo/flight-inventory/internal/model"
)

// RegisterRoutes registers the health check.  pingers are probed on
// every call so load balancers see a broken database.
func RegisterRoutes(e *echo.Echo, pingers ...handler.Pinger) {
	e.GET("/healthz", handler.Health(pingers...))
}

// RegisterAuth registers the account endpoints.  Register, login,
// refresh and logout live under /v1/auth without a JWT; /v1/me needs a
// valid access token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleCustomer),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated reference data.
func RegisterPublic(e *echo.Echo, inv *inventory.Service) {
	e.GET("/v1/airports", handler.Airports(inv))
}
