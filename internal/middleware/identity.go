package middleware

// identity.go holds helpers shared across middleware files for reading the
// caller's identity out of the Echo context.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/session"
)

// CurrentSession returns the session stored by LoadSession, or nil.  The
// Echo context is checked first; handlers reached through a wrapped
// http.Handler only see the request context.
func CurrentSession(c echo.Context) *session.Session {
	if s, ok := c.Get(CtxSession).(*session.Session); ok && s != nil {
		return s
	}
	return session.FromContext(c.Request().Context())
}

// userID returns the caller's user id as a string, or "anon" when no
// session is loaded.
func userID(c echo.Context) string {
	if s := CurrentSession(c); s != nil {
		return strconv.FormatUint(s.UserID, 10)
	}
	return "anon"
}
