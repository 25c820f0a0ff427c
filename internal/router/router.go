package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/pet-shelter/internal/handler"
	"github.com/iliyamo/pet-shelter/internal/middleware"
	"github.com/iliyamo/pet-shelter/internal/obs"
)

// Use installs the middleware every request passes through.  The session is
// loaded (and its role refreshed) before any route-level access check.
func Use(e *echo.Echo, auth middleware.SessionAuth, secret string) {
	e.Use(echomw.Recover())                     // turn handler panics into 500s
	e.Use(echomw.RequestID())                   // X-Request-ID for log correlation
	e.Use(middleware.RequestLogger())           // one structured line per request
	e.Use(middleware.Metrics())                 // Prometheus request counters
	e.Use(middleware.LoadSession(auth, secret)) // must stay last: routes rely on the refreshed role
}

// RegisterRoutes registers the health and metrics endpoints, which need no session.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(obs.Handler()))
}

// RegisterAuth registers the public login, logout and registration pages.
// Credential submissions go through the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	e.GET("/", a.Index) // dashboard or login, depending on the session
	e.GET("/login", a.LoginPage)
	e.POST("/login", a.Login, limiter)
	e.GET("/logout", a.Logout)
	e.GET("/register", a.RegisterPage)
	e.POST("/register", a.Register, limiter) // self-registration always creates a general user
}
