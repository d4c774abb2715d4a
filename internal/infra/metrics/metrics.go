// Package metrics defines the Prometheus instrumentation for the scheduling
// backend: run counters and timings for the engine, request counts for the
// HTTP API. Exposed on /metrics when enabled in the config.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SchedulingRuns counts engine invocations by algorithm and outcome.
	SchedulingRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_runs_total",
		Help: "Scheduling engine invocations by algorithm and outcome.",
	}, []string{"algorithm", "outcome"})

	// SchedulingDuration observes wall-clock time per engine run.
	SchedulingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduling_run_duration_seconds",
		Help:    "Wall-clock duration of one scheduling engine run.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"algorithm"})

	// ScheduledTasks gauges the batch size of the most recent run.
	ScheduledTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scheduling_last_run_tasks",
		Help: "Number of tasks placed by the most recent scheduling run.",
	})

	// ResidualCost gauges the weighted residual cost of the most recent
	// run's post-placement profile.
	ResidualCost = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scheduling_last_run_residual_cost",
		Help: "Weighted residual cost of the profile after the most recent run.",
	})

	// HTTPRequests counts API requests by method, route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "API requests by method, route and status code.",
	}, []string{"method", "route", "status"})
)

// ObserveRun records one engine run.
func ObserveRun(algorithm string, taskCount int, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	SchedulingRuns.WithLabelValues(algorithm, outcome).Inc()
	SchedulingDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	if err == nil {
		ScheduledTasks.Set(float64(taskCount))
	}
}

// ObserveRequest records one HTTP request.
func ObserveRequest(method, route string, status int) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
