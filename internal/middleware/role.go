package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // status codes for the 403/404 responses

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/pet-shelter/internal/access"
)

// CtxPage is the Echo context key holding the resolved access.Page.
const CtxPage = "page"

// RequirePageAccess resolves the :page_name route parameter and checks it
// against the caller's refreshed role.  Unknown pages get 404; pages the
// role may not open get 403, never a redirect.  It must run after
// LoadSession and RequireSession.
func RequirePageAccess() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Resolve the page name before looking at the role so unknown
			// pages answer 404 for every caller.
			page, ok := access.ParsePage(c.Param("page_name"))
			if !ok {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "page not found"})
			}
			role := "" // anonymous callers match no role
			if s := CurrentSession(c); s != nil {
				role = s.Role // already refreshed by LoadSession
			}
			if !access.HasAccess(page, role) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			c.Set(CtxPage, page) // read by PageHandler.Dispatch
			return next(c)
		}
	}
}
