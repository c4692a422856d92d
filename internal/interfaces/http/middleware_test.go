package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/inventory-system/internal/interfaces/http"
)

type observation struct {
	method, route string
	status        int
}

type observerStub struct{ got []observation }

func (o *observerStub) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.got = append(o.got, observation{method, route, status})
}

func TestMetrics_UsaLaRutaRegistrada(t *testing.T) {
	obs := &observerStub{}
	app := fiber.New()
	app.Use(apphttp.Metrics(obs))
	app.Get("/api/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrBadGateway })

	for _, path := range []string{"/api/items/abc", "/boom"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	require.Len(t, obs.got, 2)
	assert.Equal(t, observation{"GET", "/api/items/:id", http.StatusNotFound}, obs.got[0])
	assert.Equal(t, http.StatusBadGateway, obs.got[1].status, "el status sale del *fiber.Error")
}

func TestRequestLogger_RegistraCadaRequest(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.New(&buf)))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, buf.String(), `"path":"/health"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}
