package proxy

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts proxy cache effectiveness and upstream health.
type Metrics struct {
	registry         *prometheus.Registry
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	upstreamFailures *prometheus.CounterVec
	requests         *prometheus.CounterVec
}

// NewMetrics builds a metrics set on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "esplora_proxy",
			Name:      "cache_hits_total",
			Help:      "Responses served from the in-memory cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "esplora_proxy",
			Name:      "cache_misses_total",
			Help:      "Cacheable requests that had to hit an upstream.",
		}),
		upstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "esplora_proxy",
			Name:      "upstream_failures_total",
			Help:      "Failed upstream attempts by mirror.",
		}, []string{"upstream"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "esplora_proxy",
			Name:      "requests_total",
			Help:      "Proxied requests by method and outcome.",
		}, []string{"method", "outcome"}),
	}
	registry.MustRegister(m.cacheHits, m.cacheMisses, m.upstreamFailures, m.requests)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
