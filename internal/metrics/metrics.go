package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ventureai"

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	TaskRuns       *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	LookupOutcomes *prometheus.CounterVec
	JobsInFlight   prometheus.Gauge
}

// New registers the collectors on reg. Production passes
// prometheus.DefaultRegisterer so they share /metrics with fiberprometheus.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// task runs by kind and error kind ("ok" on success)
		TaskRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_runs_total",
			Help:      "Routed task executions by task kind and outcome",
		}, []string{"task", "outcome"}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"stage", "status"}),

		LookupOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_lookups_total",
			Help:      "Verification lookups by outcome (agree, discrepancy, unknown, failed)",
		}, []string{"outcome"}),

		JobsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analysis_jobs_in_flight",
			Help:      "Async analysis jobs currently running",
		}),
	}
}

// NewNop returns metrics bound to a private registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ObserveStage(stage string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StageDuration.WithLabelValues(stage, status).Observe(time.Since(start).Seconds())
}

func (m *Metrics) RecordTask(task, outcome string) {
	if outcome == "" {
		outcome = "ok"
	}
	m.TaskRuns.WithLabelValues(task, outcome).Inc()
}

func (m *Metrics) RecordLookup(outcome string) {
	m.LookupOutcomes.WithLabelValues(outcome).Inc()
}
