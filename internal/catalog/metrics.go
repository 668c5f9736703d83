package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of catalog snapshot cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total number of catalog snapshot cache misses",
	})

	cacheLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_duration_seconds",
		Help:    "Time taken to load the catalog documents",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})

	cacheLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_load_errors_total",
		Help: "Total number of catalog load errors",
	})
)

func recordHit()  { cacheHits.Inc() }
func recordMiss() { cacheMisses.Inc() }

func recordLoadDuration(d time.Duration) { cacheLoadDuration.Observe(d.Seconds()) }
func recordLoadError()                   { cacheLoadErrors.Inc() }
