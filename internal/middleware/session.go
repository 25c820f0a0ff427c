package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/logger"
	"github.com/iliyamo/pet-shelter/internal/session"
	"github.com/iliyamo/pet-shelter/internal/utils"
)

// SessionCookie is the name of the cookie holding the signed session id.
const SessionCookie = "shelter_session"

// Echo context keys set by LoadSession.
const (
	CtxSession     = "session"      // *session.Session, refreshed
	CtxRoleChanged = "role_changed" // bool, role differed from the cached copy
)

// SessionAuth is the part of the authenticator the middleware needs.
type SessionAuth interface {
	Session(ctx context.Context, sid string) (*session.Session, error)
	Refresh(ctx context.Context, s *session.Session) (bool, error)
}

// LoadSession resolves the session cookie, refreshes the cached role from
// the database and stores the session in both the Echo context and the
// request context.  Requests without a valid session continue anonymously;
// a database failure during refresh aborts with 503 so no access decision
// is ever made on a stale role.
func LoadSession(auth SessionAuth, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookie)
			if err != nil || ck.Value == "" {
				return next(c) // no cookie: anonymous
			}
			sid, err := utils.ParseSessionToken(secret, ck.Value)
			if err != nil {
				ClearSessionCookie(c) // tampered or expired token
				return next(c)
			}

			ctx := c.Request().Context()
			sess, err := auth.Session(ctx, sid)
			if errors.Is(err, session.ErrNotFound) {
				ClearSessionCookie(c)
				return next(c)
			}
			if err != nil {
				return unavailable(c, err) // Redis down
			}
			// Re-read the role from the database before anything downstream
			// makes an access decision with it.
			changed, err := auth.Refresh(ctx, sess)
			if errors.Is(err, session.ErrNotFound) {
				ClearSessionCookie(c) // user deleted, session already destroyed
				return next(c)
			}
			if err != nil {
				return unavailable(c, err) // database down
			}

			ctx = logger.WithUserID(session.WithContext(ctx, sess), sess.UserID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(CtxSession, sess)
			c.Set(CtxRoleChanged, changed)
			return next(c)
		}
	}
}

// unavailable logs the raw cause and answers 503 with the generic message.
func unavailable(c echo.Context, err error) error {
	logger.FromContext(c.Request().Context()).Error("session refresh failed", "error", apperr.As(err).Err)
	return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": apperr.GenericMessage})
}

// RequireSession redirects anonymous requests to the login page.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentSession(c) == nil {
				return c.Redirect(http.StatusFound, "/login")
			}
			return next(c)
		}
	}
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
