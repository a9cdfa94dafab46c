package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.  *sql.DB satisfies it
// through PingContext.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health answers GET /healthz with "ok" once every pinger responds, and
// 503 otherwise.  With no pingers it only proves the process is up.
func Health(pingers ...Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		for _, p := range pingers {
			if err := p.PingContext(ctx); err != nil {
				return c.String(http.StatusServiceUnavailable, "unavailable")
			}
		}
		return c.String(http.StatusOK, "ok")
	}
}
