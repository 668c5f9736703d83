package planner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_build_duration_seconds",
		Help:    "Time taken to build an itinerary",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	buildErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_build_errors_total",
		Help: "Total number of itinerary build failures",
	})

	candidateCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_candidates_count",
		Help:    "Number of candidate museums pooled per build",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 500},
	})
)

func recordBuildDuration(d time.Duration) { buildDuration.Observe(d.Seconds()) }
func recordBuildError()                   { buildErrors.Inc() }
func recordCandidateCount(n int)          { candidateCount.Observe(float64(n)) }
