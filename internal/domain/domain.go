package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Conventional change types emitted by the automation tool. The relay does
// not enforce them; callers may send arbitrary non-empty type strings.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Appointment is one row of the clinic's appointments table. The relay only
// reads appointments; creation and mutation happen in the external database.
type Appointment struct {
	ID          int64     `json:"pk_id"`
	ClientName  string    `json:"nombre_cliente"`
	ClientPhone string    `json:"numero_cliente"`
	ScheduledAt time.Time `json:"fecha_hora"`
	TotalPrice  float64   `json:"precio_total"`
	Order       string    `json:"pedido"`
}

// ChangeEvent is the envelope broadcast to every connected dashboard client.
// Data is the caller-supplied payload, passed through unvalidated.
type ChangeEvent struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// AppointmentSource reads appointment records from the backing store.
type AppointmentSource interface {
	// List returns all appointments ordered ascending by fecha_hora.
	List(ctx context.Context) ([]Appointment, error)
	// ListToday returns the appointments falling on the database server's
	// current date, same ordering.
	ListToday(ctx context.Context) ([]Appointment, error)
}

// Notifier fans a change event out to all connected realtime clients.
// Delivery is best-effort and never reports per-client failures.
type Notifier interface {
	Broadcast(changeType string, payload json.RawMessage)
}
