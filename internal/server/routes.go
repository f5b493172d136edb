package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// REST API for the dashboard and the automation tool
	s.echo.GET("/", s.handleWelcome)
	s.echo.GET("/api/appointments", s.handleListAppointments)
	s.echo.GET("/api/appointments/today", s.handleListTodayAppointments)
	s.echo.POST("/api/notify-change", s.handleNotifyChange)

	// Realtime channel
	s.echo.GET("/ws", s.handleWebSocket)
}
