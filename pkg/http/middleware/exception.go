package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/log"
)

// ExceptionMiddleware recovers panics and returns a 500 envelope.
func ExceptionMiddleware(c *fiber.Ctx) error {
	defer func() {
		if err := recover(); err != nil {
			_ = http.WithRepErr(c, http.InternalError.Code, errorToString(err), c.Path())
			log.Errorf("panic: %v\n%s", err, debug.Stack())
		}
	}()

	return c.Next()
}

func errorToString(err any) string {
	switch v := err.(type) {
	case http.ResponseErr:
		if errMsg, ok := v.ErrMsg.(string); ok {
			return errMsg
		}
		return http.InternalError.Msg
	case error:
		// never leak internal errors or stacks to the client
		return http.InternalError.Msg
	default:
		if errMsg, ok := v.(string); ok {
			return errMsg
		}
		return http.InternalError.Msg
	}
}
