package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/handler"
	"github.com/iliyamo/pet-shelter/internal/middleware"
)

// RegisterPages mounts the page dispatcher.  Anonymous callers are sent to
// /login, unknown pages get 404 and pages outside the caller's role get 403
// before the handler runs.
func RegisterPages(e *echo.Echo, p *handler.PageHandler) {
	g := e.Group(
		"/page",
		middleware.RequireSession(), // anonymous -> 302 /login
		middleware.NoCache(),        // role-dependent markup
	)
	g.GET("/:page_name", p.Dispatch, middleware.RequirePageAccess())  // page view
	g.POST("/:page_name", p.Dispatch, middleware.RequirePageAccess()) // form actions post back to the page
}
