package job

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pipeline and step outcomes for the /metrics endpoint.
type Metrics struct {
	PipelineRuns *prometheus.CounterVec
	StepRuns     *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptodigest_pipeline_runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		StepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptodigest_step_runs_total",
			Help: "Step executions by step name and outcome.",
		}, []string{"step", "outcome"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cryptodigest_step_duration_seconds",
			Help:    "Step execution time in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),
	}
	reg.MustRegister(m.PipelineRuns, m.StepRuns, m.StepDuration)
	return m
}
