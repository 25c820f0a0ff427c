package handler // declare the package name; contains HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness check used by load balancers.  It does not touch
// MySQL or Redis.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
