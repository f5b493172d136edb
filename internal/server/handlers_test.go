package server

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/config"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/domain"
	apperrors "github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/errors"
	"github.com/labstack/echo/v4"
)

// --- Mock implementations ---

type mockAppointmentSource struct {
	listFn      func(ctx context.Context) ([]domain.Appointment, error)
	listTodayFn func(ctx context.Context) ([]domain.Appointment, error)
}

func (m *mockAppointmentSource) List(ctx context.Context) ([]domain.Appointment, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []domain.Appointment{}, nil
}

func (m *mockAppointmentSource) ListToday(ctx context.Context) ([]domain.Appointment, error) {
	if m.listTodayFn != nil {
		return m.listTodayFn(ctx)
	}
	return []domain.Appointment{}, nil
}

type broadcastCall struct {
	changeType string
	payload    json.RawMessage
}

type mockHub struct {
	broadcasts  []broadcastCall
	clientCount int
}

func (m *mockHub) Register(_ *websocket.Conn) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (m *mockHub) Unregister(_ *websocket.Conn) {}

func (m *mockHub) Send(_ *websocket.Conn, _ string, _ any) {}

func (m *mockHub) Broadcast(changeType string, payload json.RawMessage) {
	m.broadcasts = append(m.broadcasts, broadcastCall{changeType: changeType, payload: payload})
}

func (m *mockHub) ClientCount() int {
	return m.clientCount
}

type mockPgxPool struct {
	pingErr error
}

func (m *mockPgxPool) Ping(_ context.Context) error {
	return m.pingErr
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:       "development",
		Port:         "0",
		DashboardURL: "http://dashboard.example.com",
		MaxWSClients: 16,
	}
}

func newTestServer(t *testing.T, appointments domain.AppointmentSource, h realtimeHub, opts ...func(*Server)) *Server {
	t.Helper()

	if h == nil {
		h = &mockHub{}
	}

	srv := NewServer(testConfig(), appointments, h, &mockPgxPool{}, clockwork.NewFakeClock())

	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

func withPostgresHealthCheck(pg postgresHealthChecker) func(*Server) {
	return func(s *Server) {
		s.db = pg
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}

func failingSource(msg string) *mockAppointmentSource {
	return &mockAppointmentSource{
		listFn: func(_ context.Context) ([]domain.Appointment, error) {
			return nil, fmt.Errorf("%s", msg)
		},
		listTodayFn: func(_ context.Context) ([]domain.Appointment, error) {
			return nil, fmt.Errorf("%s", msg)
		},
	}
}
