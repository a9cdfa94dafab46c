package middleware

// identity.go holds the context keys JWTAuth fills in and the helpers
// that read them back.  Handlers and the cache/rate-limit middleware all
// go through these so the key names live in one place.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

// UserID returns the authenticated user's ID stored by JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(userIDKey).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated user's role stored by JWTAuth.
func Role(c echo.Context) string {
	r, _ := c.Get(roleKey).(string)
	return r
}

// userKey renders the user ID for cache and rate-limit keys, "guest"
// when the request is anonymous.
func userKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}
