package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

const namespace = "smart_orders"

// Prometheus implementa ports.Metrics sobre un registro propio.
type Prometheus struct {
	registry *prometheus.Registry

	orderTransitions *prometheus.CounterVec
	stockUnits       *prometheus.CounterVec
	paymentEvents    *prometheus.CounterVec
	tenantLookups    *prometheus.CounterVec

	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

// New registra todas las series. Con withRuntime agrega los collectors de Go y del proceso.
func New(withRuntime bool) *Prometheus {
	reg := prometheus.NewRegistry()
	m := &Prometheus{
		registry: reg,
		orderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Transiciones de estado de órdenes por origen, destino y resultado",
		}, []string{"from", "to", "outcome"}),
		stockUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_units_total",
			Help:      "Unidades movidas en el inventario por tipo de movimiento",
		}, []string{"kind"}),
		paymentEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_events_total",
			Help:      "Pagos registrados, cancelados y rechazados",
		}, []string{"event"}),
		tenantLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_lookups_total",
			Help:      "Resoluciones de tenant por fuente",
		}, []string{"source"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de los requests HTTP en segundos",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Requests HTTP con status >= 400",
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(m.orderTransitions, m.stockUnits, m.paymentEvents, m.tenantLookups, m.requestDuration, m.requestErrors)
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

// Registry para tests y para exponer /metrics.
func (m *Prometheus) Registry() *prometheus.Registry { return m.registry }

func (m *Prometheus) OrderTransition(from, to, outcome string) {
	m.orderTransitions.WithLabelValues(from, to, outcome).Inc()
}

func (m *Prometheus) StockMoved(kind string, units int) {
	if units < 0 {
		units = -units
	}
	m.stockUnits.WithLabelValues(kind).Add(float64(units))
}

func (m *Prometheus) PaymentEvent(event string) {
	m.paymentEvents.WithLabelValues(event).Inc()
}

func (m *Prometheus) TenantLookup(source string) {
	m.tenantLookups.WithLabelValues(source).Inc()
}

// Middleware mide duración y errores por ruta registrada (no por URL cruda).
func (m *Prometheus) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < 400 {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		code := strconv.Itoa(status)
		m.requestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		if status >= 400 {
			m.requestErrors.WithLabelValues(c.Method(), path, code).Inc()
		}
		return err
	}
}

// Handler expone el registro en formato Prometheus.
func (m *Prometheus) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
