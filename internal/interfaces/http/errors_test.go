package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhr-resorts/gestion-api/internal/domain"
)

// statusFor monta un handler mínimo que devuelve err via domainError y
// devuelve el status y el cuerpo observados.
func statusFor(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return domainError(c, err)
	})
	resp, reqErr := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()
	raw, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

// ─── Mapeo de errores centinela ──────────────────────────────────────────────

func TestDomainError_Mapeo(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"entrada inválida", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"motivo obligatorio", domain.ErrReasonRequired, fiber.StatusBadRequest, "REASON_REQUIRED"},
		{"no autorizado", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"acceso denegado", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"stock insuficiente", domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"producto archivado", domain.ErrArchived, fiber.StatusConflict, "ARCHIVED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := statusFor(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

// Una edición sin cambio real no es un fallo del servidor: se responde 200
// informativo, nunca 500.
func TestDomainError_SinCambiosEs200(t *testing.T) {
	status, body := statusFor(t, domain.ErrNoChange)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "sin cambios", body["message"])
}
