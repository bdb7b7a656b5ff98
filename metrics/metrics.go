// Package metrics exposes proxy counters in Prometheus format.
//
// All methods are safe to call on a nil [*Metrics], which makes metrics optional
// for the components that record them.
package metrics

import (
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace is the metric namespace used when none is given.
const DefaultNamespace = "sipproxy"

// Leg outcomes.
const (
	LegSent        = "sent"
	LegConnRefused = "conn_refused"
	LegNoRoute     = "no_route"
	LegFailed      = "failed"
)

// Metrics holds the proxy collectors and their registry.
type Metrics struct {
	Registry *prometheus.Registry

	requests  *prometheus.CounterVec
	responses *prometheus.CounterVec
	legs      *prometheus.CounterVec
	inflight  prometheus.Gauge
}

// New creates the proxy metrics in a new registry together with Go runtime
// and process collectors.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		PidFn:     func() (int, error) { return os.Getpid(), nil },
		Namespace: namespace,
	}))

	m := &Metrics{
		Registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Processed inbound requests by method and routing type.",
		}, []string{"method", "routing"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Final responses sent by the proxy by status code.",
		}, []string{"status"}),
		legs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "legs_total",
			Help:      "Forwarded request legs by outcome.",
		}, []string{"outcome"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_inflight",
			Help:      "Requests currently in the routing pipeline.",
		}),
	}
	reg.MustRegister(m.requests, m.responses, m.legs, m.inflight)
	return m
}

// Handler returns an HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Begin marks a request entering the pipeline. The returned func marks it leaving.
func (m *Metrics) Begin() func() {
	if m == nil {
		return func() {}
	}
	m.inflight.Inc()
	return m.inflight.Dec
}

// Request counts a classified request.
func (m *Metrics) Request(method, routing string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, routing).Inc()
}

// Response counts a final response sent by the proxy.
func (m *Metrics) Response(status int) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(strconv.Itoa(status)).Inc()
}

// Leg counts a dispatched leg with the given outcome.
func (m *Metrics) Leg(outcome string) {
	if m == nil {
		return
	}
	m.legs.WithLabelValues(outcome).Inc()
}
