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

	WorkerCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_result_cache_hits_total",
			Help: "Jobs completed from a cached result instead of a new completion",
		},
		[]string{"task_type"},
	)

	CompletionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_requests_total",
			Help: "Completion requests by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completion_request_duration_seconds",
			Help:    "Latency of completion requests",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"model"},
	)

	ExtractionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "structured_extraction_total",
			Help: "Structured extraction attempts by winning strategy, or none",
		},
		[]string{"stage", "strategy"},
	)

	RepairOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "structured_repair_total",
			Help: "Repair passes by feature and outcome",
		},
		[]string{"feature", "outcome"},
	)

	NormalizerDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalizer_dropped_elements_total",
			Help: "List elements dropped by normalizers",
		},
		[]string{"kind"},
	)
)
