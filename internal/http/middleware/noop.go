package middleware

import "github.com/gofiber/fiber/v2"

// Noop calls the next handler. It stands in for an optional middleware that is switched off,
// e.g. tracing when OTEL_SDK_DISABLED is set.
func Noop() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}
