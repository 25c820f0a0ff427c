package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/logger"
	"github.com/iliyamo/pet-shelter/internal/obs"
)

// RequestLogger attaches the request id to the request context and emits
// one log line per request.  It expects echo's RequestID middleware to run
// first.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			c.SetRequest(c.Request().WithContext(logger.WithRequestID(c.Request().Context(), rid)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			logger.FromContext(req.Context()).Info("http request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user", userID(c),
			)
			return nil
		}
	}
}

// Metrics records request counts and latencies labelled by route pattern.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			obs.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, status).Inc()
			obs.HTTPRequestDuration.WithLabelValues(c.Request().Method, route, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
