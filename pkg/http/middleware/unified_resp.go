package middleware

import (
	"github.com/gofiber/fiber/v2"
	httpx "github.com/jmarkets/jmarkets/pkg/http"
)

// UnifiedResponseMiddleware wraps handler results into the response envelope.
// Handlers set c.Locals(DETAIL, value) for payloads, or c.Locals(OPERATION, true)
// for payload-less success.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			return err
		}

		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		if len(c.Response().Body()) > 0 {
			// handler already wrote a response
			return nil
		}

		if detail := c.Locals(DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}

		if c.Locals(OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}

		return nil
	}
}
