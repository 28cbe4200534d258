package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements MetricsCollector on top of
// prometheus/client_golang, letting a caller scrape circuit breaker
// health the same way it would scrape resolver latency (spec.md §6
// "optional OpenTelemetry metrics").
type PrometheusMetrics struct {
	successes   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	stateChange *prometheus.CounterVec
}

// NewPrometheusMetrics registers its collectors against reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmiqgraphql_breaker_successes_total",
			Help: "Calls that completed without a counting failure.",
		}, []string{"breaker"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmiqgraphql_breaker_failures_total",
			Help: "Calls that failed with an error counted toward the trip threshold.",
		}, []string{"breaker", "error_kind"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmiqgraphql_breaker_rejections_total",
			Help: "Calls rejected because the breaker was open.",
		}, []string{"breaker"}),
		stateChange: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosmiqgraphql_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions.",
		}, []string{"breaker", "from", "to"}),
	}

	reg.MustRegister(m.successes, m.failures, m.rejections, m.stateChange)
	return m
}

func (m *PrometheusMetrics) RecordSuccess(name string) {
	m.successes.WithLabelValues(name).Inc()
}

func (m *PrometheusMetrics) RecordFailure(name, errorKind string) {
	m.failures.WithLabelValues(name, errorKind).Inc()
}

func (m *PrometheusMetrics) RecordRejection(name string) {
	m.rejections.WithLabelValues(name).Inc()
}

func (m *PrometheusMetrics) RecordStateChange(name, from, to string) {
	m.stateChange.WithLabelValues(name, from, to).Inc()
}
