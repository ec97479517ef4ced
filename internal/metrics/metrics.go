// FlueCraft - 3D Chimney Design Catalog and Asset Service
// Copyright 2026 FlueCraft Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fluecraft/fluecraft

// Package metrics defines the Prometheus instrumentation exposed at
// /metrics: HTTP request counters and latencies, asset resolver outcomes
// and upload activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts HTTP requests by method, route pattern and
	// status code.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fluecraft_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration observes request latency by method and route
	// pattern.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fluecraft_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// APIActiveRequests gauges in-flight requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fluecraft_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	// AssetResolutionsTotal counts media resolutions by outcome: exact,
	// normalized, relaxed or miss. A rising relaxed/miss ratio means stored
	// paths have drifted badly from the files on disk.
	AssetResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fluecraft_asset_resolutions_total",
			Help: "Media path resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// UploadsTotal counts accepted uploads by kind (glb, image, model).
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fluecraft_uploads_total",
			Help: "Accepted file uploads by kind",
		},
		[]string{"kind"},
	)
)

// RecordAPIRequest records one completed request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAssetResolution records one resolver outcome.
func RecordAssetResolution(outcome string) {
	AssetResolutionsTotal.WithLabelValues(outcome).Inc()
}
