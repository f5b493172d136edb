package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/config"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/database"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/hub"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/logging"
	"github.com/juanpabloortiz01/Websocket-Dashboard-Clinica-Testeo/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL())
	if err != nil {
		logging.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}

	return pool
}

func runGracefulShutdown(srv *server.Server, h *hub.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.WithError(err).Error("Server shutdown error")
		}

		h.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	appointments := database.NewAppointmentRepo(pool)
	broadcastHub := hub.New(clock, cfg.MaxWSClients)

	srv := server.NewServer(cfg, appointments, broadcastHub, pool, clock)

	done := runGracefulShutdown(srv, broadcastHub)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.WithError(err).Error("Server error")
		os.Exit(1)
	}

	<-done
}
