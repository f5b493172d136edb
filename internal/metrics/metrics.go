// Package metrics defines the relay's Prometheus collectors, exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hub metrics
var (
	// HubConnectedClients tracks the number of currently connected websocket clients
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients",
			Help: "Number of currently connected websocket clients",
		},
	)

	// HubBroadcastsTotal tracks change events fanned out to all clients
	HubBroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_broadcasts_total",
			Help: "Total appointment_update broadcasts issued",
		},
	)

	// HubSlowClientsEvicted tracks clients dropped because their send buffer was full
	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Total clients evicted because their send buffer was full",
		},
	)

	// HubRejectedClients tracks connections refused at the client limit
	HubRejectedClients = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_rejected_clients_total",
			Help: "Total connections rejected because the client limit was reached",
		},
	)

	// HubStopTimeoutsTotal tracks shutdowns that exceeded the graceful bound
	HubStopTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_stop_timeouts_total",
			Help: "Total hub shutdowns that exceeded the graceful stop timeout",
		},
	)

	// WebSocketMessageSendDuration tracks websocket write latency in seconds
	WebSocketMessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	// WebSocketPingFailures tracks failed keepalive pings
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total failed websocket keepalive pings",
		},
	)
)

// Query gateway metrics
var (
	// AppointmentQueriesTotal tracks appointment queries by query name and status
	AppointmentQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_queries_total",
			Help: "Total appointment queries by query and status",
		},
		[]string{"query", "status"},
	)

	// AppointmentQueryDuration tracks appointment query latency in seconds
	AppointmentQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "appointment_query_duration_seconds",
			Help:    "Appointment query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)
)
