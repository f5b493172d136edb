// Package server wires the HTTP and realtime surfaces: the REST endpoints
// the dashboard and automation tool call, the websocket upgrade path, and
// the health/metrics endpoints.
package server
