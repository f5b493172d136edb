package server

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/errors"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/version"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleWelcome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service":   "clinic appointments relay",
		"status":    "ok",
		"timestamp": s.clock.Now(),
	})
}

func (s *Server) handleListAppointments(c echo.Context) error {
	appointments, err := s.appointments.List(c.Request().Context())
	if err != nil {
		return apperrors.DataSourceError("failed to list appointments", err)
	}
	return c.JSON(http.StatusOK, appointments)
}

func (s *Server) handleListTodayAppointments(c echo.Context) error {
	appointments, err := s.appointments.ListToday(c.Request().Context())
	if err != nil {
		return apperrors.DataSourceError("failed to list today's appointments", err)
	}
	return c.JSON(http.StatusOK, appointments)
}

// notifyChangeRequest is the body the automation tool posts. Type is any
// non-empty string; the conventional values (created, updated, deleted) are
// not enforced. Data is passed through to clients unvalidated.
type notifyChangeRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *Server) handleNotifyChange(c echo.Context) error {
	var req notifyChangeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid JSON body")
	}

	if strings.TrimSpace(req.Type) == "" {
		return apperrors.ValidationError("type is required").WithField("field", "type")
	}
	if len(req.Data) == 0 {
		return apperrors.ValidationError("data is required").WithField("field", "data")
	}

	s.hub.Broadcast(req.Type, req.Data)

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Notificación enviada",
	})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, version.Get())
}
