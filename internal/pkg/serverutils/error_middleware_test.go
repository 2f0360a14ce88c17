package serverutils

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"solemate-be/internal/service"
	"solemate-be/pkg/ai/pipeline"
	"solemate-be/pkg/rag/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	SessionID string `validate:"required,uuid"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", ValidateRequest(sample{}), fiber.StatusBadRequest},
		{"empty turn", pipeline.ErrEmptyTurn, fiber.StatusBadRequest},
		{"bad image", fmt.Errorf("%w: empty image", service.ErrInvalidImage), fiber.StatusBadRequest},
		{"contract", fmt.Errorf("%w: bad json", response.ErrContract), fiber.StatusBadGateway},
		{"generation", fmt.Errorf("%w: timeout", response.ErrGeneration), fiber.StatusBadGateway},
		{"fiber", fiber.NewError(fiber.StatusNotFound, "nope"), fiber.StatusNotFound},
		{"other", fmt.Errorf("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			var body Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	err := ValidateRequest(sample{SessionID: "not-a-uuid"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "must be a valid UUID", ve.Fields["SessionID"])

	assert.NoError(t, ValidateRequest(sample{SessionID: "0b7e2c36-1f1e-4c5e-9e55-0a6f7f0d8a11"}))
}
