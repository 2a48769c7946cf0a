package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosEstrada30/smart-orders-api/internal/infrastructure/metrics"
)

func TestPrometheus_EventosDeNegocio(t *testing.T) {
	m := metrics.New(false)

	m.OrderTransition("pending", "confirmed", "ok")
	m.OrderTransition("pending", "confirmed", "ok")
	m.OrderTransition("confirmed", "shipped", "rejected")
	m.StockMoved("reserve", 5)
	m.StockMoved("withdraw", -3)
	m.PaymentEvent("recorded")
	m.TenantLookup("cache")

	series, err := testutil.GatherAndCount(m.Registry(), "smart_orders_order_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series, "una serie por (from, to, outcome)")

	expected := `
# HELP smart_orders_stock_units_total Unidades movidas en el inventario por tipo de movimiento
# TYPE smart_orders_stock_units_total counter
smart_orders_stock_units_total{kind="reserve"} 5
smart_orders_stock_units_total{kind="withdraw"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "smart_orders_stock_units_total"))

	series, err = testutil.GatherAndCount(m.Registry(), "smart_orders_payment_events_total", "smart_orders_tenant_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestPrometheus_MiddlewareYHandler(t *testing.T) {
	m := metrics.New(false)
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/falla", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusConflict, "x") })
	app.Get("/metrics", m.Handler())

	for _, path := range []string{"/ok", "/falla"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	errs, err := testutil.GatherAndCount(m.Registry(), "smart_orders_http_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, errs)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "smart_orders_http_request_duration_seconds")
}
