package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/config"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/domain"
	apperrors "github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// realtimeHub is the hub surface the server needs; satisfied by *hub.Hub.
type realtimeHub interface {
	Register(conn *websocket.Conn) (uuid.UUID, error)
	Unregister(conn *websocket.Conn)
	Send(conn *websocket.Conn, event string, data any)
	Broadcast(changeType string, payload json.RawMessage)
	ClientCount() int
}

// postgresHealthChecker is a minimal interface for database health checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	appointments domain.AppointmentSource
	hub          realtimeHub
	db           postgresHealthChecker
	clock        clockwork.Clock
	startTime    time.Time
	upgrader     websocket.Upgrader
}

func NewServer(cfg *config.Config, appointments domain.AppointmentSource, h realtimeHub, db postgresHealthChecker, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	if cfg.DashboardURL != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{cfg.DashboardURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowCredentials: true,
		}))
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		appointments: appointments,
		hub:          h,
		db:           db,
		clock:        clock,
		startTime:    clock.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     NewCheckOrigin(cfg.DashboardURL, cfg.IsDevelopment()),
		},
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Server starting", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
