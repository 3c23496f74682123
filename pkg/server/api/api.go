package api

import (
	"context"
	"sync/atomic"

	"github.com/lestorrr/NetLab/pkg/scanexec"
)

// ScanService is the subset of scanexec.Service needed by the API.
// Defined here to ease mocking in handler tests.
type ScanService interface {
	Run(ctx context.Context, params scanexec.Params) (*scanexec.Result, error)
}

// Deps holds dependencies for API handlers.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Scanner runs port scans
	Scanner ScanService

	// Guard refuses private and internal targets; nil disables the check
	Guard scanexec.Guard

	// Config holds request limits and timeouts
	Config Config

	// Ready flag for readiness check
	Ready *atomic.Bool
}
