package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfix_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keyfix_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Engine metrics
	fixesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfix_fixes_total",
			Help: "Layout fix attempts by final state",
		},
		[]string{"state"}, // state: no-conversion, accepted, rejected
	)

	suggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfix_suggestions_total",
			Help: "Suggestions emitted by the ranker",
		},
		[]string{"operation"},
	)

	batchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "keyfix_batch_size",
			Help:    "Number of texts per batch request",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
		},
	)

	batchItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfix_batch_items_total",
			Help: "Batch items processed",
		},
		[]string{"operation", "status"},
	)

	engineReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfix_engine_reloads_total",
			Help: "Engine snapshot rebuilds",
		},
		[]string{"status"},
	)

	customWordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfix_custom_word_edits_total",
			Help: "Custom dictionary edits",
		},
		[]string{"action", "status"},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "keyfix_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyfix_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
