package ports

// Metrics eventos de negocio que la capa de infraestructura convierte en series.
// Los casos de uso no conocen Prometheus.
type Metrics interface {
	OrderTransition(from, to, outcome string)
	StockMoved(kind string, units int)
	PaymentEvent(event string)
	TenantLookup(source string)
}

// NopMetrics descarta todos los eventos.
type NopMetrics struct{}

func (NopMetrics) OrderTransition(string, string, string) {}
func (NopMetrics) StockMoved(string, int)                 {}
func (NopMetrics) PaymentEvent(string)                    {}
func (NopMetrics) TenantLookup(string)                    {}

// OrNop devuelve m, o NopMetrics si m es nil.
func OrNop(m Metrics) Metrics {
	if m == nil {
		return NopMetrics{}
	}
	return m
}
