package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/domain"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/logging"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/metrics"
)

// EventAppointmentUpdate and friends name the server-to-client events on the
// realtime channel. Clients send EventRequestAppointments.
const (
	EventConnected           = "connected"
	EventAppointmentUpdate   = "appointment_update"
	EventAppointmentsData    = "appointments_data"
	EventError               = "error"
	EventRequestAppointments = "request_appointments"
)

const (
	commandTimeout = 5 * time.Second  // bound on reply waits if the actor stalls
	stopTimeout    = 10 * time.Second // graceful shutdown bound
)

// Message is the wire frame for every realtime event, in both directions.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	conn    *websocket.Conn
	replyCh chan registerReply
}

func (cmdRegister) hubCmd() {}

type registerReply struct {
	id  uuid.UUID
	err error
}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdBroadcast struct {
	data []byte
}

func (cmdBroadcast) hubCmd() {}

type cmdSend struct {
	conn *websocket.Conn
	data []byte
}

func (cmdSend) hubCmd() {}

type cmdClientCount struct {
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Hub ---

// Hub is the broadcast hub: it owns the set of connected realtime clients and
// fans appointment_update events out to all of them. All membership state is
// confined to the run goroutine; callers interact only through commands, so
// broadcasts reach each client in issuance order without locking.
type Hub struct {
	cmdCh       chan hubCmd
	clients     map[*websocket.Conn]*client
	clock       clockwork.Clock
	maxClients  int
	done        chan struct{}
	stopTimeout time.Duration
}

type client struct {
	id     uuid.UUID
	writer *clientWriter
}

var _ domain.Notifier = (*Hub)(nil)

// New creates a hub and starts its command loop. maxClients bounds the
// number of simultaneously connected clients.
func New(clock clockwork.Clock, maxClients int) *Hub {
	h := &Hub{
		cmdCh:       make(chan hubCmd, 256),
		clients:     make(map[*websocket.Conn]*client),
		clock:       clock,
		maxClients:  maxClients,
		done:        make(chan struct{}),
		stopTimeout: stopTimeout,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)

	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.conn)
		case cmdBroadcast:
			h.handleBroadcast(c.data)
		case cmdSend:
			h.handleSend(c)
		case cmdClientCount:
			c.replyCh <- len(h.clients)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	if len(h.clients) >= h.maxClients {
		slog.Warn("Rejecting client: max clients reached", "max_clients", h.maxClients)
		metrics.HubRejectedClients.Inc()
		c.conn.Close()
		c.replyCh <- registerReply{err: fmt.Errorf("max clients (%d) reached", h.maxClients)}
		return
	}

	cl := &client{
		id:     uuid.New(),
		writer: newClientWriter(c.conn, h.clock),
	}
	h.clients[c.conn] = cl

	metrics.HubConnectedClients.Set(float64(len(h.clients)))
	logging.WithClient(cl.id.String()).Info("Client connected", "total_clients", len(h.clients))
	c.replyCh <- registerReply{id: cl.id}
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	cl, exists := h.clients[conn]
	if !exists {
		return
	}

	cl.writer.stop()
	delete(h.clients, conn)

	metrics.HubConnectedClients.Set(float64(len(h.clients)))
	logging.WithClient(cl.id.String()).Info("Client disconnected", "total_clients", len(h.clients))
}

func (h *Hub) handleBroadcast(data []byte) {
	var slow []*websocket.Conn
	for conn, cl := range h.clients {
		select {
		case cl.writer.sendCh <- data:
		default:
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		logging.WithClient(h.clients[conn].id.String()).Warn("Disconnecting slow client")
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(conn)
	}
}

func (h *Hub) handleSend(c cmdSend) {
	cl, exists := h.clients[c.conn]
	if !exists {
		return
	}

	select {
	case cl.writer.sendCh <- c.data:
	default:
		logging.WithClient(cl.id.String()).Warn("Disconnecting slow client")
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(c.conn)
	}
}

func (h *Hub) handleStop() {
	for conn, cl := range h.clients {
		cl.writer.stopGraceful("Server shutting down")
		delete(h.clients, conn)
	}
	metrics.HubConnectedClients.Set(0)
}

// --- Public API ---

// Register adds a connection to the broadcast group and returns its opaque
// client identifier. On error the connection has already been closed.
func (h *Hub) Register(conn *websocket.Conn) (uuid.UUID, error) {
	replyCh := make(chan registerReply, 1)
	h.cmdCh <- cmdRegister{conn: conn, replyCh: replyCh}

	// Bound the wait so a stalled command loop cannot hang the ws handler
	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case reply := <-replyCh:
		return reply.id, reply.err
	case <-timer.Chan():
		return uuid.Nil, fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a connection from the broadcast group. No further
// events are delivered to it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{conn: conn}
}

// Broadcast fans an appointment_update event out to every connected client.
// Fire-and-forget: per-client delivery failures are swallowed (the slow
// client is evicted) and never reach the caller.
func (h *Hub) Broadcast(changeType string, payload json.RawMessage) {
	event := domain.ChangeEvent{
		Type:      changeType,
		Data:      payload,
		Timestamp: h.clock.Now(),
	}
	data, err := json.Marshal(Message{Event: EventAppointmentUpdate, Data: event})
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "error", err)
		return
	}

	metrics.HubBroadcastsTotal.Inc()
	h.cmdCh <- cmdBroadcast{data: data}
}

// Send delivers one event to a single connection, routed through the same
// per-connection writer as broadcasts so writes never interleave.
func (h *Hub) Send(conn *websocket.Conn, event string, data any) {
	msg, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		slog.Error("Failed to marshal message", "event", event, "error", err)
		return
	}
	h.cmdCh <- cmdSend{conn: conn, data: msg}
}

// ClientCount returns the number of currently connected clients, or -1 if
// the command times out.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{replyCh: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("ClientCount timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop disconnects every client and shuts the command loop down. Blocks
// until the loop has exited or the shutdown bound is reached.
func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}

	timer := h.clock.NewTimer(h.stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Hub stop timeout exceeded", "timeout", h.stopTimeout, "remaining_clients", len(h.clients))
		metrics.HubStopTimeoutsTotal.Inc()
	}
}
