package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pairwire/relay-server/internal/config"
	"github.com/pairwire/relay-server/internal/core"
	transporthttp "github.com/pairwire/relay-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	directory := core.NewRoomDirectory(cfg.RoomCapacity)
	registry := core.NewConnectionRegistry()

	table := transporthttp.NewConnTable(logger)
	emitter := core.NewEmitter(directory, table)
	dispatcher := core.NewDispatcher(directory, registry, emitter, cfg.SingleRoom, logger)

	server := transporthttp.NewServer(dispatcher, table, cfg, logger)

	logger.Info().
		Int("room_capacity", cfg.RoomCapacity).
		Bool("single_room", cfg.SingleRoom).
		Msg("relay core initialized")

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
