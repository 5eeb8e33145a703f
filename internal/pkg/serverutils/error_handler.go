package serverutils

import (
	"errors"
	"net/http"

	"docchat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "An error occurred while processing your query. Please try again later."

// ErrorHandlerMiddleware turns errors returned by later handlers into the
// {"detail", "code"} JSON body. Unknown errors are logged and hidden.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, msg := http.StatusInternalServerError, internalErrorMessage

		var appErr *AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code, msg = appErr.Code, appErr.Message
		case errors.As(err, &fiberErr):
			code, msg = fiberErr.Code, fiberErr.Message
		}

		if code >= http.StatusInternalServerError {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(code, msg))
	}
}
