package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"

	"github.com/lestorrr/NetLab/pkg/safeguard"
)

var validate = validator.New()

// DefaultServerConfig returns the default server configuration.
// These are sensible defaults for local development and can be overridden
// via flags, environment variables, or config files.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           "127.0.0.1",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		HandlerTimeout: 45 * time.Second,
		MaxPorts:       100,
		DenyList:       append([]string(nil), safeguard.DefaultDenyList...),
		RateLimit: RateLimitConfig{
			Requests: 6,
			Window:   time.Minute,
		},
		Auth: AuthConfig{
			Mode: "none",
		},
	}
}

// Validate checks the server configuration for out-of-range values.
func (c ServerConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("server config: rate_limit.window must be positive when rate_limit.requests is set")
	}
	return nil
}

// Validate checks the scan defaults.
func (c ScanConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("scan config: %w", err)
	}
	return nil
}

// BindServerFlags binds server-specific flags to the provided FlagSet.
// These flags will be used by the 'netlab server start' command.
//
// Flags are namespaced under 'server.' so koanf's posflag provider maps them
// straight onto config keys. Example: --server.addr, --server.port
func BindServerFlags(flags *pflag.FlagSet) {
	defaults := DefaultServerConfig()

	flags.String("server.addr", defaults.Addr, "Server listen address (use 0.0.0.0 for all interfaces)")
	flags.Int("server.port", defaults.Port, "Server listen port")
	flags.Duration("server.read_timeout", defaults.ReadTimeout, "HTTP read timeout")
	flags.Duration("server.write_timeout", defaults.WriteTimeout, "HTTP write timeout")
	flags.Duration("server.handler_timeout", defaults.HandlerTimeout, "Maximum duration of one scan request")
	flags.Int("server.max_ports", defaults.MaxPorts, "Maximum ports scanned per API request")
	flags.String("server.auth.mode", defaults.Auth.Mode, "Authentication mode: none|token")
	flags.String("server.auth.token", "", "Static bearer token for token auth mode")
}
