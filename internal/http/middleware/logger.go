package middleware

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"doclib/internal/logger"
)

// LoggerWithWriter logs each request to w with request_id, method, path, status
// and latency in milliseconds. request_id comes from RequestID, so register that first.
// Share tokens are bearer credentials and never appear in the logged path.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	log := logger.New(w, loc)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Errors returned here reach the ErrorHandler only after this middleware, so derive the status.
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", redactPath(c.Path())).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Send()

		return err
	}
}

const sharedPrefix = "/shared/"

// redactPath replaces the token in /shared/<token>[/...] with ":token".
func redactPath(p string) string {
	rest, ok := strings.CutPrefix(p, sharedPrefix)
	if !ok || rest == "" {
		return p
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return sharedPrefix + ":token" + rest[i:]
	}
	return sharedPrefix + ":token"
}
