package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracingMiddleware(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/api/posts/:id", func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/api/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusInternalServerError, "boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("X-Trace-ID"))
	assert.Empty(t, recorder.Ended())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/42", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/boom", nil))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /api/posts/:id", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("user.id", "user-1"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.response.status_code", http.StatusOK))
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}
