// Package domain holds the relay's core types and the interfaces its
// adapters implement: AppointmentSource (Postgres) and Notifier (the
// websocket hub).
package domain
