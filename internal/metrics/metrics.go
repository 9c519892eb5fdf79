// Package metrics exports Prometheus instrumentation for the chat pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopassist"

// Metrics holds the chat pipeline collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	ChatRequests  *prometheus.CounterVec
	AIFallbacks   *prometheus.CounterVec
	CatalogErrors prometheus.Counter
	ChatDuration  prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests
// to avoid duplicate registration on the default registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ChatRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat messages handled, by query type",
		}, []string{"query_type"}),
		AIFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_ai_fallbacks_total",
			Help:      "Intent extractions that fell back to the lexical extractor",
		}, []string{"reason"}),
		CatalogErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_errors_total",
			Help:      "Catalog fetches that failed and were treated as empty",
		}),
		ChatDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_duration_seconds",
			Help:      "End-to-end chat handling time",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		gatherer: reg,
	}
}

// ObserveChat records one handled chat message.
func (m *Metrics) ObserveChat(queryType string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(queryType).Inc()
	m.ChatDuration.Observe(elapsed.Seconds())
}

// AIFallback records a fallback to the lexical extractor.
func (m *Metrics) AIFallback(reason string) {
	if m == nil {
		return
	}
	m.AIFallbacks.WithLabelValues(reason).Inc()
}

// CatalogError records a failed catalog fetch.
func (m *Metrics) CatalogError() {
	if m == nil {
		return
	}
	m.CatalogErrors.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
