package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/domain"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/metrics"
)

// appointmentColumns must match the Scan order in scanAppointments.
const appointmentColumns = `pk_id, nombre_cliente, numero_cliente, fecha_hora, precio_total, pedido`

// AppointmentRepo implements domain.AppointmentSource backed by PostgreSQL.
// Each call issues exactly one query; there are no retries and no caching.
type AppointmentRepo struct {
	pool *pgxpool.Pool
}

var _ domain.AppointmentSource = (*AppointmentRepo)(nil)

func NewAppointmentRepo(pool *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{pool: pool}
}

// List returns every appointment row, sorted ascending by fecha_hora.
func (r *AppointmentRepo) List(ctx context.Context) ([]domain.Appointment, error) {
	return r.query(ctx, "list", `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY fecha_hora
	`)
}

// ListToday returns the appointments falling on the current date. "Today" is
// evaluated with the database server's clock: the fecha_hora timestamp is
// cast to a date and compared against CURRENT_DATE.
func (r *AppointmentRepo) ListToday(ctx context.Context) ([]domain.Appointment, error) {
	return r.query(ctx, "list_today", `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE fecha_hora::date = CURRENT_DATE
		ORDER BY fecha_hora
	`)
}

func (r *AppointmentRepo) query(ctx context.Context, name, sql string) ([]domain.Appointment, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		metrics.AppointmentQueriesTotal.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}

	appointments, err := scanAppointments(rows)
	metrics.AppointmentQueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AppointmentQueriesTotal.WithLabelValues(name, "error").Inc()
		return nil, err
	}

	metrics.AppointmentQueriesTotal.WithLabelValues(name, "success").Inc()
	return appointments, nil
}

func scanAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.ClientName, &a.ClientPhone, &a.ScheduledAt, &a.TotalPrice, &a.Order); err != nil {
			return nil, fmt.Errorf("failed to scan appointment row: %w", err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read appointment rows: %w", err)
	}

	return appointments, nil
}
