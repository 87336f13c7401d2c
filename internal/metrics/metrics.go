// Package metrics exposes Prometheus instrumentation for the evaluation
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluationsTotal counts compliance evaluations started.
	EvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rf_compliance_evaluations_total",
		Help: "Total number of compliance evaluations performed.",
	})

	// ResultsTotal counts produced results, partitioned by outcome.
	ResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rf_compliance_results_total",
		Help: "Total number of per-label compliance results produced.",
	}, []string{"passed"})

	// LabelSkipsTotal counts labels skipped during evaluation because the
	// network could not serve them (missing port, malformed label).
	LabelSkipsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rf_compliance_label_skips_total",
		Help: "Total number of S-parameter labels skipped during evaluation.",
	})

	// EvaluationDuration observes wall time of single-measurement
	// evaluations.
	EvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rf_compliance_evaluation_duration_seconds",
		Help:    "Duration of compliance evaluations.",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveResults records the outcome counters for a batch of results.
func ObserveResults(passed, failed int) {
	ResultsTotal.WithLabelValues("true").Add(float64(passed))
	ResultsTotal.WithLabelValues("false").Add(float64(failed))
}
