package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics reúne os contadores de autorização.
// Um *Metrics nil é válido e não registra nada.
type Metrics struct {
	registry *prometheus.Registry

	AuthzDecisionsTotal   *prometheus.CounterVec
	RoleCacheRequests     *prometheus.CounterVec
	RoleCacheInvalidation *prometheus.CounterVec
}

// New cria e registra as métricas num registry próprio
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_decisions_total",
				Help: "Permission checks by resource, action and result",
			},
			[]string{"resource", "action", "result"},
		),
		RoleCacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_role_cache_requests_total",
				Help: "Custom role cache lookups by result",
			},
			[]string{"result"},
		),
		RoleCacheInvalidation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_role_cache_invalidations_total",
				Help: "Custom role cache invalidations by source",
			},
			[]string{"source"},
		),
	}

	registry.MustRegister(
		m.AuthzDecisionsTotal,
		m.RoleCacheRequests,
		m.RoleCacheInvalidation,
	)

	return m
}

// Handler expõe o registry no formato do Prometheus
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDecision conta uma decisão ("allow", "deny" ou "error")
func (m *Metrics) ObserveDecision(resource, action, result string) {
	if m == nil {
		return
	}
	m.AuthzDecisionsTotal.WithLabelValues(resource, action, result).Inc()
}

// ObserveCache conta um lookup ("hit" ou "miss")
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.RoleCacheRequests.WithLabelValues(result).Inc()
}

// ObserveInvalidation conta uma invalidação ("local" ou "remote")
func (m *Metrics) ObserveInvalidation(source string) {
	if m == nil {
		return
	}
	m.RoleCacheInvalidation.WithLabelValues(source).Inc()
}
