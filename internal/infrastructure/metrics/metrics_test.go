package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveDecision("page", "publish", "allow")
	m.ObserveDecision("page", "publish", "allow")
	m.ObserveCache("hit")
	m.ObserveInvalidation("remote")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	for _, expected := range []string{
		`authz_decisions_total{action="publish",resource="page",result="allow"} 2`,
		`authz_role_cache_requests_total{result="hit"} 1`,
		`authz_role_cache_invalidations_total{source="remote"} 1`,
	} {
		if !strings.Contains(body, expected) {
			t.Errorf("métrica ausente: %s", expected)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveDecision("page", "read", "deny")
	m.ObserveCache("miss")
	m.ObserveInvalidation("local")

	if m.Handler() == nil {
		t.Error("handler nil")
	}
}
