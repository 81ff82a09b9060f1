// Package metrics holds the Prometheus collectors for ingestion and geocoding.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "geostats"

// Ingestion outcomes.
const (
	ResultSaved     = "saved"
	ResultDuplicate = "duplicate"
	ResultFailed    = "failed"
)

// Geocoder outcomes.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

var (
	GamesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_ingested_total",
		Help:      "Game submissions by outcome.",
	}, []string{"result"})

	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_requests_total",
		Help:      "Reverse geocoding lookups by outcome.",
	}, []string{"result"})

	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingest_duration_seconds",
		Help:      "Time taken to ingest one game, including statistics refresh.",
		Buckets:   prometheus.DefBuckets,
	})
)
