package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localRequestID = "request_id"

// RequestIDMiddleware: pakai X-Request-ID dari client kalau ada, selain itu generate.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(fiber.HeaderXRequestID)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		c.Locals(localRequestID, rid)
		c.Set(fiber.HeaderXRequestID, rid)
		return c.Next()
	}
}

func RequestID(c *fiber.Ctx) string {
	s, _ := c.Locals(localRequestID).(string)
	return s
}
