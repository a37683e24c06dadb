/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package telemetry exposes prometheus metrics for the scheduling engine.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	publishesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studiocast_publishes_total",
		Help: "Schedule publish attempts by result.",
	}, []string{"result"})

	publishDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "studiocast_publish_duration_seconds",
		Help:    "Wall time of the publish transaction.",
		Buckets: prometheus.DefBuckets,
	})

	validationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studiocast_validation_errors_total",
		Help: "Draft validation errors by type.",
	}, []string{"type"})

	chunksReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studiocast_upload_chunks_total",
		Help: "Chunk append attempts by result.",
	}, []string{"result"})

	dbQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studiocast_db_query_duration_seconds",
		Help:    "Database operation latency by operation and table.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "table"})
)

// RecordPublish records a publish attempt.
func RecordPublish(result string, elapsed time.Duration) {
	publishesTotal.WithLabelValues(result).Inc()
	if result == "success" {
		publishDuration.Observe(elapsed.Seconds())
	}
}

// RecordValidationError counts one validation error by type.
func RecordValidationError(errType string) {
	validationErrorsTotal.WithLabelValues(errType).Inc()
}

// RecordChunk records a chunk append attempt.
func RecordChunk(result string) {
	chunksReceivedTotal.WithLabelValues(result).Inc()
}

// RecordDBOperation records a database operation's latency.
func RecordDBOperation(operation, table string, elapsed time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
