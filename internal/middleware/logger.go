package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Logger logs every request, but only slow (>500ms) or failed (>=400)
// ones at info; the rest stay at debug to keep the hosting platform's
// log rate limit out of reach.
func Logger(l zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		ev := l.Debug()
		if status >= 400 || latency >= 500*time.Millisecond {
			ev = l.Info()
		}
		ev.Int("status", status).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Dur("latency", latency).
			Msg("request")
		return err
	}
}
