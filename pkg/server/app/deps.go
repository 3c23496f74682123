package app

import (
	"github.com/rs/zerolog"

	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/server/api"
)

// Deps holds dependencies for the server application.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Scanner runs port scans; defaults to scanexec.NewService()
	Scanner api.ScanService

	// Config manager used to reload the deny list when the config file
	// changes. Optional.
	Config *config.Manager

	// Logger for structured logging (injected by caller)
	Logger zerolog.Logger
}
