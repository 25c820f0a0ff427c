package middleware

import "github.com/labstack/echo/v4"

// NoCache forbids browsers and proxies from storing the response.  Roles
// can change between requests, so authenticated markup must never be
// replayed from a cache.
func NoCache() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate") // HTTP/1.1
			h.Set("Pragma", "no-cache")                                           // HTTP/1.0 proxies
			h.Set("Expires", "0")                                                 // already stale
			return next(c)
		}
	}
}
