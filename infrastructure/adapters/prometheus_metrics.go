package adapters

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "speakyer"

// PrometheusMetrics owns its registry so several instances can live in one process.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	StageResults      *prometheus.CounterVec
	SynthesisCalls    *prometheus.CounterVec
	SynthesisDuration prometheus.Histogram
	PipelineOutcomes  *prometheus.CounterVec
}

func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()

	m := &PrometheusMetrics{
		registry: reg,
		StageResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stage_results_total",
			Help:      "Pipeline stage outcomes by cache result",
		}, []string{"stage", "result"}),
		SynthesisCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "synthesis_calls_total",
			Help:      "Speech synthesis calls by status",
		}, []string{"status"}),
		SynthesisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "synthesis_duration_seconds",
			Help:      "Duration of speech synthesis calls in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		PipelineOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pipeline_outcomes_total",
			Help:      "Pipeline invocations by response status code",
		}, []string{"status"}),
	}

	reg.MustRegister(m.StageResults, m.SynthesisCalls, m.SynthesisDuration, m.PipelineOutcomes)

	return m
}

var _ outbound.MetricsPort = (*PrometheusMetrics)(nil)

func (m *PrometheusMetrics) StageResult(stage string, cacheHit bool) {
	result := "miss"
	if cacheHit {
		result = "hit"
	}
	m.StageResults.WithLabelValues(stage, result).Inc()
}

func (m *PrometheusMetrics) SynthesisCall(duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SynthesisCalls.WithLabelValues(status).Inc()
	m.SynthesisDuration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) PipelineOutcome(statusCode int) {
	m.PipelineOutcomes.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
