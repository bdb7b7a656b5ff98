package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sipio/sipproxy/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := metrics.New("")
	m.Request("INVITE", "INTRA_DOMAIN")
	m.Request("INVITE", "INTRA_DOMAIN")
	m.Response(480)
	m.Leg(metrics.LegSent)
	m.Leg(metrics.LegConnRefused)
	done := m.Begin()

	expected := `
# HELP sipproxy_legs_total Forwarded request legs by outcome.
# TYPE sipproxy_legs_total counter
sipproxy_legs_total{outcome="conn_refused"} 1
sipproxy_legs_total{outcome="sent"} 1
# HELP sipproxy_requests_inflight Requests currently in the routing pipeline.
# TYPE sipproxy_requests_inflight gauge
sipproxy_requests_inflight 1
# HELP sipproxy_requests_total Processed inbound requests by method and routing type.
# TYPE sipproxy_requests_total counter
sipproxy_requests_total{method="INVITE",routing="INTRA_DOMAIN"} 2
# HELP sipproxy_responses_total Final responses sent by the proxy by status code.
# TYPE sipproxy_responses_total counter
sipproxy_responses_total{status="480"} 1
`
	if err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected),
		"sipproxy_legs_total", "sipproxy_requests_inflight", "sipproxy_requests_total", "sipproxy_responses_total",
	); err != nil {
		t.Errorf("metrics mismatch: %v", err)
	}

	done()
	expected = `
# HELP sipproxy_requests_inflight Requests currently in the routing pipeline.
# TYPE sipproxy_requests_inflight gauge
sipproxy_requests_inflight 0
`
	if err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "sipproxy_requests_inflight"); err != nil {
		t.Errorf("inflight mismatch after done(): %v", err)
	}
}

func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	m.Request("BYE", "INTRA_DOMAIN")
	m.Response(503)
	m.Leg(metrics.LegFailed)
	m.Begin()()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("nil handler status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := metrics.New("edge")
	m.Response(403)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("http.Get() error = %v, want nil", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `edge_responses_total{status="403"} 1`) {
		t.Errorf("metrics body lacks edge_responses_total, got:\n%s", body)
	}
}
