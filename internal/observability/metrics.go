package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportpulse_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by key family and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportpulse_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result",
	}, []string{"family", "result"})

	// DatabaseQueryLatency records database query latency by operation.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sportpulse_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// AuthEvents counts register/login attempts by outcome.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportpulse_auth_events_total",
		Help: "Authentication events by type and outcome",
	}, []string{"event", "outcome"})

	// PostEvents counts post and comment mutations.
	PostEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportpulse_post_events_total",
		Help: "Post and comment mutations by type",
	}, []string{"event"})

	// UploadBytes records the size of accepted image uploads.
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportpulse_upload_bytes",
		Help:    "Size of accepted image uploads in bytes",
		Buckets: prometheus.ExponentialBuckets(16<<10, 4, 6),
	})

	// WebSocketConnections is the gauge of open feed connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportpulse_websocket_connections",
		Help: "Number of open feed WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportpulse_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)
