package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lestorrr/NetLab/pkg/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 45*time.Second, cfg.HandlerTimeout)
	require.Equal(t, 100, cfg.MaxPorts)
	require.Equal(t, 50, cfg.DefaultConcurrency)
	require.Equal(t, 800*time.Millisecond, cfg.ProbeTimeout)
	require.NoError(t, cfg.Validate())
}

func TestFromServerConfig(t *testing.T) {
	server := config.DefaultServerConfig()
	server.HandlerTimeout = 5 * time.Second
	server.MaxPorts = 20

	scan := config.DefaultConfig().Scan
	scan.Timeout = 300 * time.Millisecond

	cfg := FromServerConfig(server, scan)
	require.Equal(t, 5*time.Second, cfg.HandlerTimeout)
	require.Equal(t, 20, cfg.MaxPorts)
	require.Equal(t, 300*time.Millisecond, cfg.ProbeTimeout)
	require.Equal(t, DefaultConcurrency, cfg.DefaultConcurrency)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errType error
	}{
		{name: "valid default config", mutate: func(*Config) {}},
		{name: "zero timeout is valid (disables timeout)", mutate: func(c *Config) { c.HandlerTimeout = 0 }},
		{name: "negative handler timeout", mutate: func(c *Config) { c.HandlerTimeout = -time.Second }, errType: ErrInvalidTimeout},
		{name: "negative probe timeout", mutate: func(c *Config) { c.ProbeTimeout = -time.Second }, errType: ErrInvalidTimeout},
		{name: "zero max ports", mutate: func(c *Config) { c.MaxPorts = 0 }, errType: ErrInvalidMaxPorts},
		{name: "max ports above cap", mutate: func(c *Config) { c.MaxPorts = 1001 }, errType: ErrInvalidMaxPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errType != nil {
				require.ErrorIs(t, err, tt.errType)
				return
			}
			require.NoError(t, err)
		})
	}
}
