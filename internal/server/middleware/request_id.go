package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-Id"

// RequestLogger reuses an incoming X-Request-Id or mints one, echoes it back,
// and stores a logger tagged with it in the request context.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(RequestIDHeader)
			if rid == "" || len(rid) > 128 {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, rid)
			c.Set("request_id", rid)

			logger := base.With().Str("request_id", rid).Logger()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context())))
			return next(c)
		}
	}
}
