// Package metrics exposes Prometheus collectors for token verification.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "verifytoken"

// Verification outcomes used as the "outcome" label.
const (
	OutcomeAccepted = "accepted"
	OutcomeReplayed = "replayed"
	OutcomeInvalid  = "invalid"
)

// Metrics owns a private Prometheus registry so tests and multiple
// servers in one process do not collide on the global one.
type Metrics struct {
	reg           *prometheus.Registry
	verifications *prometheus.CounterVec
}

// New registers the collectors. size reports the current number of used
// tokens and is sampled on every scrape.
func New(size func() int) *Metrics {
	reg := prometheus.NewRegistry()

	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Token verification requests by outcome.",
	}, []string{"outcome"})
	for _, o := range []string{OutcomeAccepted, OutcomeReplayed, OutcomeInvalid} {
		verifications.WithLabelValues(o)
	}

	tokens := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "registry_tokens",
		Help:      "Number of tokens recorded as used. The registry never shrinks.",
	}, func() float64 { return float64(size()) })

	reg.MustRegister(
		verifications,
		tokens,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{reg: reg, verifications: verifications}
}

// Observe counts one verification with the given outcome.
func (m *Metrics) Observe(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
