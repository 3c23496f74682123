// pkg/server/server.go
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/lestorrr/NetLab/pkg/logging"
	"github.com/lestorrr/NetLab/pkg/server/app"
)

// Server runs an App until its context ends or a termination signal arrives.
type Server struct {
	app        *app.App
	signals    chan os.Signal
	reopenLogs func() error
}

// NewServer wraps a for signal-driven execution.
func NewServer(a *app.App) *Server {
	return &Server{
		app:        a,
		signals:    make(chan os.Signal, 1),
		reopenLogs: logging.Reopen,
	}
}

// Run blocks until ctx ends, SIGINT/SIGTERM arrives or the app fails.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.configureSignals()
	defer signal.Stop(s.signals)

	go s.listenSignals(ctx)

	err := s.app.Run(ctx)
	log.Info().Msg("Server stopped")
	return err
}
