// pkg/config/types.go
package config

import "time"

// Config is the root configuration structure for NetLab.
type Config struct {
	Log    LogConfig    `description:"Logging configuration" koanf:"log"`
	Scan   ScanConfig   `description:"Scan defaults" koanf:"scan"`
	Server ServerConfig `description:"Server configuration" koanf:"server"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (debug, info, warn, error)" koanf:"level"`
	Format string `description:"Log format: json | text" koanf:"format"`
	File   string `description:"Log file path (stdout when empty)" koanf:"file"`
}

// ScanConfig holds defaults for 'netlab scan' and for API requests that omit them.
type ScanConfig struct {
	Ports       string        `description:"Default port specification" koanf:"ports"`
	Concurrency int           `description:"Maximum simultaneous connect attempts" koanf:"concurrency" validate:"min=1"`
	Timeout     time.Duration `description:"Timeout for a single connect attempt" koanf:"timeout" validate:"gt=0"`
}

// ServerConfig holds configuration for the HTTP scan API.
// Used by 'netlab server start'.
type ServerConfig struct {
	// Network settings
	Addr string `description:"Server listen address" koanf:"addr"`
	Port int    `description:"Server listen port" koanf:"port" validate:"min=1,max=65535"`

	// HTTP timeouts
	ReadTimeout    time.Duration `description:"HTTP read timeout" koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout   time.Duration `description:"HTTP write timeout" koanf:"write_timeout" validate:"gte=0"`
	HandlerTimeout time.Duration `description:"Maximum duration of one scan request" koanf:"handler_timeout" validate:"gte=0"`

	// Scan limits
	MaxPorts int      `description:"Maximum ports scanned per API request" koanf:"max_ports" validate:"min=1,max=1000"`
	DenyList []string `description:"Target substrings the API refuses to scan" koanf:"deny_list"`

	// Sub-configurations
	RateLimit RateLimitConfig `description:"Per-client rate limiting" koanf:"rate_limit"`
	Auth      AuthConfig      `description:"Authentication configuration" koanf:"auth"`
}

// RateLimitConfig bounds how many scan requests one client may issue per window.
// A zero Requests value disables rate limiting.
type RateLimitConfig struct {
	Requests int           `description:"Requests allowed per window" koanf:"requests" validate:"gte=0"`
	Window   time.Duration `description:"Rate limit window" koanf:"window" validate:"gte=0"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Mode  string `description:"Authentication mode: none|token" koanf:"mode" validate:"oneof=none token"`
	Token string `description:"Static bearer token (required for token mode)" koanf:"token" validate:"required_if=Mode token"`
}
