package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runlens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runlens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Extraction metrics
	parseRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runlens_parse_requests_total",
			Help: "Total number of parse requests",
		},
		[]string{"transport", "status"}, // transport: http, websocket
	)

	parseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runlens_parse_duration_seconds",
			Help:    "Extraction duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"transport"},
	)

	fieldsRecovered = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runlens_parse_fields_recovered",
			Help:    "Number of workout fields recovered per parse",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"transport"},
	)

	totalScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runlens_parse_total_score",
			Help:    "Combined score of the selected field combination",
			Buckets: []float64{-100, -50, 0, 50, 100, 150, 200, 300, 400},
		},
		[]string{"transport"},
	)

	candidatesGenerated = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runlens_parse_candidates",
			Help:    "Candidates generated per field per parse",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
		[]string{"transport", "field"},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runlens_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runlens_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
