package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// HeaderUserID carries the caller's user id.  Authentication happens in
// front of this service; the header is trusted as-is.
const HeaderUserID = "X-User-ID"

const userIDKey = "user_id"

// Identity copies the X-User-ID header into the request context so rate
// limiting and handlers see the same value.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid := strings.TrimSpace(c.Request().Header.Get(HeaderUserID)); uid != "" {
				c.Set(userIDKey, uid)
			}
			return next(c)
		}
	}
}

// UserID returns the caller id set by Identity, or "" when absent.
func UserID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok {
		return s
	}
	return ""
}

func userOrAnon(c echo.Context) string {
	if uid := UserID(c); uid != "" {
		return uid
	}
	return "anon"
}
