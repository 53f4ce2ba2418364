// Package metrics collects Prometheus metrics for password generation,
// strength scoring and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	PasswordsGenerated *prometheus.CounterVec
	PasswordScores     prometheus.Histogram
	WeakFragments      prometheus.Counter

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PasswordsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keysmith_passwords_generated_total",
				Help: "Password generation requests by outcome",
			},
			[]string{"outcome"},
		),
		PasswordScores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "keysmith_password_score",
				Help:    "Distribution of password strength scores",
				Buckets: []float64{0, 33, 67, 100, 150, 200},
			},
		),
		WeakFragments: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "keysmith_weak_fragments_total",
				Help: "Dictionary fragments found while scoring passwords",
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keysmith_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keysmith_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveGenerated counts one generation request.
func (m *Metrics) ObserveGenerated(outcome string) {
	if m == nil {
		return
	}
	m.PasswordsGenerated.WithLabelValues(outcome).Inc()
}

// ObserveScore records a computed score and how many weak fragments it hit.
func (m *Metrics) ObserveScore(score float64, weakFragments int) {
	if m == nil {
		return
	}
	m.PasswordScores.Observe(score)
	m.WeakFragments.Add(float64(weakFragments))
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}
