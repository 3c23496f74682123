package api

import (
	"errors"
	"time"

	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/portspec"
	"github.com/lestorrr/NetLab/pkg/probe"
)

// Sentinel errors for configuration validation
var (
	// ErrInvalidTimeout is returned when a timeout value is invalid (negative).
	ErrInvalidTimeout = errors.New("invalid timeout: must be >= 0")

	// ErrInvalidMaxPorts is returned when the per-request port limit is out of range.
	ErrInvalidMaxPorts = errors.New("invalid max ports: must be between 1 and 1000")
)

// DefaultConcurrency is the admission ceiling for API scans that omit one.
const DefaultConcurrency = 50

// Config holds API-level configuration.
type Config struct {
	// HandlerTimeout is the maximum duration of one scan request.
	// If a scan exceeds it the handler returns HTTP 504 Gateway Timeout.
	//
	// Applied only if the request context doesn't already have a deadline.
	// Zero disables the timeout.
	HandlerTimeout time.Duration

	// MaxPorts truncates the parsed port set of each request.
	MaxPorts int

	// DefaultConcurrency applies when a request omits concurrency.
	DefaultConcurrency int

	// ProbeTimeout bounds each connect attempt.
	ProbeTimeout time.Duration
}

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return Config{
		HandlerTimeout:     45 * time.Second,
		MaxPorts:           100,
		DefaultConcurrency: DefaultConcurrency,
		ProbeTimeout:       probe.DefaultTimeout,
	}
}

// FromServerConfig derives the API configuration from the loaded config.
func FromServerConfig(server config.ServerConfig, scan config.ScanConfig) Config {
	cfg := DefaultConfig()
	cfg.HandlerTimeout = server.HandlerTimeout
	if server.MaxPorts > 0 {
		cfg.MaxPorts = server.MaxPorts
	}
	if scan.Timeout > 0 {
		cfg.ProbeTimeout = scan.Timeout
	}
	return cfg
}

// Validate checks that the configuration is valid.
// Returns an error if any configuration value is invalid.
func (c Config) Validate() error {
	if c.HandlerTimeout < 0 || c.ProbeTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPorts < 1 || c.MaxPorts > portspec.MaxPorts {
		return ErrInvalidMaxPorts
	}
	return nil
}
