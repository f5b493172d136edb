package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/hub"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/logging"
	"github.com/labstack/echo/v4"
)

// handleWebSocket runs one realtime connection: Connecting (upgrade +
// register) -> Connected (ack sent, member of the broadcast group, read
// loop) -> Disconnected (removed from the group, terminal).
func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("Failed to upgrade websocket", "error", err, "remote_addr", c.Request().RemoteAddr)
		return nil
	}

	clientID, err := s.hub.Register(conn)
	if err != nil {
		// Connection already closed by the hub.
		return nil
	}

	s.hub.Send(conn, hub.EventConnected, map[string]any{
		"message":   "Conectado al servidor WebSocket",
		"timestamp": s.clock.Now(),
	})

	s.readLoop(c.Request().Context(), conn, clientID)

	s.hub.Unregister(conn)
	return nil
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, clientID uuid.UUID) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg hub.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			logging.WithClient(clientID.String()).Debug("Ignoring malformed realtime message", "error", err)
			continue
		}

		switch msg.Event {
		case hub.EventRequestAppointments:
			s.handleRequestAppointments(ctx, conn, clientID)
		default:
			logging.WithClient(clientID.String()).Debug("Ignoring unknown realtime event", "event", msg.Event)
		}
	}
}

// handleRequestAppointments answers a request_appointments message with a
// fresh query result on the requesting connection only; query failures
// become an error event for that client, never a broadcast.
func (s *Server) handleRequestAppointments(ctx context.Context, conn *websocket.Conn, clientID uuid.UUID) {
	appointments, err := s.appointments.List(ctx)
	if err != nil {
		logging.WithClient(clientID.String()).Error("Failed to load appointments for realtime request", "error", err)
		s.hub.Send(conn, hub.EventError, map[string]string{"message": err.Error()})
		return
	}

	s.hub.Send(conn, hub.EventAppointmentsData, appointments)
}
