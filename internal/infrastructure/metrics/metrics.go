// Package metrics expone métricas Prometheus del inventario y del servidor HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventory-system/internal/domain/entity"
	"github.com/jhoicas/inventory-system/internal/domain/stock"
)

const namespace = "inventory"

// ItemSource snapshot de la colección (inventory.Store).
type ItemSource interface {
	Items() []entity.Item
}

// LedgerSource tamaño del ledger (ledger.Ledger).
type LedgerSource interface {
	Len() int
}

// Metrics registro propio (no el global) con los collectors de la aplicación.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New registra los collectors de runtime, los gauges del inventario (evaluados en cada
// scrape) y los de HTTP.
func New(items ItemSource, ledger LedgerSource) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests HTTP atendidos por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de los requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.latency)

	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "items",
			Help: "Items distintos en el inventario.",
		}, func() float64 { return float64(len(items.Items())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "low_stock_items",
			Help: "Items con quantity <= minQuantity.",
		}, func() float64 { return float64(len(stock.LowStock(items.Items()))) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "stock_value",
			Help: "Valor total del inventario (Σ price × quantity).",
		}, func() float64 {
			v, _ := stock.Summarize(items.Items()).TotalValue.Float64()
			return v
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "ledger_entries",
			Help: "Entradas en el ledger de movimientos.",
		}, func() float64 { return float64(ledger.Len()) }),
	)
	return m
}

// ObserveRequest registra un request atendido. route es el patrón (ej. /api/items/:id)
// para no explotar la cardinalidad con IDs.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler handler net/http para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry expuesto para tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
