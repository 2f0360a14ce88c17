package serverutils

import (
	"errors"

	"solemate-be/internal/service"
	"solemate-be/pkg/ai/pipeline"
	"solemate-be/pkg/rag/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns handler errors into the standard envelope
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message, data := classify(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message, data))
	}
}

func classify(err error) (int, string, interface{}) {
	var validationErr *ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, "Invalid request", validationErr.Fields
	case errors.Is(err, pipeline.ErrEmptyTurn), errors.Is(err, service.ErrInvalidImage):
		return fiber.StatusBadRequest, err.Error(), nil
	case errors.Is(err, response.ErrContract):
		return fiber.StatusBadGateway, "The assistant returned an invalid reply. Please try again.", nil
	case errors.Is(err, response.ErrGeneration):
		return fiber.StatusBadGateway, "The assistant is unavailable right now. Please try again.", nil
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message, nil
	default:
		return fiber.StatusInternalServerError, "Internal server error", nil
	}
}
