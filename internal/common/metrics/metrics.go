// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitegen_decisions_total",
			Help: "Total number of site decisions emitted, by selected template",
		},
		[]string{"template_id"},
	)

	QuestionsEmitted = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitegen_questions_emitted",
			Help:    "Number of clarifying questions emitted per decision",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"task_type"},
	)

	QualityScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitegen_quality_score",
			Help:    "Overall data quality score of evaluated businesses",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"task_type"},
	)
)
