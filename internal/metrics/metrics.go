// Package metrics exposes order lifecycle counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/polkiloo/coffeeshop/internal/domain/model"
)

const namespace = "coffeeshop"

// Metrics owns a private registry so that tests and multiple apps in one
// process do not collide on the global one.
type Metrics struct {
	registry        *prometheus.Registry
	ordersCreated   prometheus.Counter
	orderRevenue    *prometheus.CounterVec
	ordersCancelled prometheus.Counter
	statusChanges   *prometheus.CounterVec
	conflictRetries *prometheus.CounterVec
	dueSoon         prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders placed by customers.",
		}),
		orderRevenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_revenue_minor_units_total",
			Help:      "Sum of order totals at creation, in minor currency units.",
		}, []string{"currency"}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_by_customer_total",
			Help:      "Scheduled orders cancelled by customers.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Staff status changes by target status.",
		}, []string{"to"}),
		conflictRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_conflict_retries_total",
			Help:      "Optimistic update retries after a concurrent modification.",
		}, []string{"operation"}),
		dueSoon: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders_due_soon",
			Help:      "Open scheduled orders whose pickup is within the next ten minutes.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ordersCreated,
		m.orderRevenue,
		m.ordersCancelled,
		m.statusChanges,
		m.conflictRetries,
		m.dueSoon,
	)
	return m
}

func (m *Metrics) OrderCreated(order *model.Order) {
	m.ordersCreated.Inc()
	m.orderRevenue.WithLabelValues(order.Currency).Add(float64(order.Total))
}

func (m *Metrics) OrderCancelled(*model.Order) {
	m.ordersCancelled.Inc()
}

func (m *Metrics) StatusChanged(_, to model.OrderStatus) {
	m.statusChanges.WithLabelValues(string(to)).Inc()
}

func (m *Metrics) ConflictRetried(operation string) {
	m.conflictRetries.WithLabelValues(operation).Inc()
}

// SetDueSoon records the current size of the due-soon board.
func (m *Metrics) SetDueSoon(n int) {
	m.dueSoon.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Module provides the metrics set.
var Module = fx.Provide(New)
