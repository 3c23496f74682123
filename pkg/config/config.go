// pkg/config/config.go
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/lestorrr/NetLab/pkg/portspec"
	"github.com/lestorrr/NetLab/pkg/probe"
	"github.com/lestorrr/NetLab/pkg/scanner"
)

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	filePath      string
	mu            sync.RWMutex // protects currentConfig during runtime reloads
}

// NewManager creates a new Manager backed by a fresh koanf instance.
func NewManager() *Manager {
	return &Manager{
		koanfInstance: koanf.New("."),
	}
}

// DefaultConfig returns a new Config struct populated with hardcoded default values.
// These serve as the baseline configuration if no other sources override them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Scan: ScanConfig{
			Ports:       portspec.DefaultSpec,
			Concurrency: scanner.DefaultConcurrency,
			Timeout:     probe.DefaultTimeout,
		},
		Server: DefaultServerConfig(),
	}
}

// Load loads configuration from defaults, the optional config file,
// NETLAB_* environment variables and flags, in that order of precedence.
func (m *Manager) Load(flags *pflag.FlagSet, customConfigFilePath string) error {
	debug := false
	if flags != nil {
		if debugFlag := flags.Lookup("debug"); debugFlag != nil && debugFlag.Value.String() == "true" {
			debug = true
		}
	}
	return m.LoadWithSources(DefaultSources(customConfigFilePath, flags, debug))
}

// LoadWithSources loads the given sources in priority order and replaces the
// current configuration with the merged result.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	k := koanf.New(".")
	for _, src := range sources {
		if err := src.Load(k); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
		if fs, ok := src.(*FileSource); ok && fs.Path != "" {
			m.filePath = fs.Path
		}
	}

	var newCfg Config
	if err := k.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}

	m.koanfInstance = k
	m.currentConfig = newCfg
	m.postProcessConfig()

	return nil
}

// ReloadFile re-reads the config file on top of the loaded configuration and
// returns the refreshed result. Flags and environment keep their precedence
// because only keys present in the file are replaced.
func (m *Manager) ReloadFile() (Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.filePath == "" {
		return m.currentConfig, nil
	}

	fileLayer := koanf.New(".")
	if err := (&FileSource{Path: m.filePath}).Load(fileLayer); err != nil {
		return m.currentConfig, err
	}

	var fromFile Config
	if err := fileLayer.UnmarshalWithConf("", &fromFile, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return m.currentConfig, fmt.Errorf("error unmarshaling reloaded config: %w", err)
	}

	// Only the deny list is hot-reloadable.
	if fileLayer.Exists("server.deny_list") {
		m.currentConfig.Server.DenyList = fromFile.Server.DenyList
		_ = m.koanfInstance.Set("server.deny_list", fromFile.Server.DenyList)
	}

	return m.currentConfig, nil
}

// FilePath returns the config file used by the last Load, if any.
func (m *Manager) FilePath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filePath
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfgCopy := m.currentConfig
	cfgCopy.Server.DenyList = append([]string(nil), m.currentConfig.Server.DenyList...)
	return cfgCopy
}

// postProcessConfig fills values that the sources left unusable.
func (m *Manager) postProcessConfig() {
	cfg := &m.currentConfig
	if cfg.Scan.Ports == "" {
		cfg.Scan.Ports = portspec.DefaultSpec
	}
	if cfg.Scan.Concurrency < 1 {
		cfg.Scan.Concurrency = scanner.DefaultConcurrency
	}
	if cfg.Scan.Timeout <= 0 {
		cfg.Scan.Timeout = probe.DefaultTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// DefaultConfigAsMap converts the DefaultConfig struct to a map[string]interface{}
// for koanf's confmap.Provider so koanf knows every key.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		// Log configuration
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,
		"log.file":   def.Log.File,

		// Scan configuration
		"scan.ports":       def.Scan.Ports,
		"scan.concurrency": def.Scan.Concurrency,
		"scan.timeout":     def.Scan.Timeout,

		// Server configuration
		"server.addr":            def.Server.Addr,
		"server.port":            def.Server.Port,
		"server.read_timeout":    def.Server.ReadTimeout,
		"server.write_timeout":   def.Server.WriteTimeout,
		"server.handler_timeout": def.Server.HandlerTimeout,
		"server.max_ports":       def.Server.MaxPorts,
		"server.deny_list":       def.Server.DenyList,

		"server.rate_limit.requests": def.Server.RateLimit.Requests,
		"server.rate_limit.window":   def.Server.RateLimit.Window,

		"server.auth.mode":  def.Server.Auth.Mode,
		"server.auth.token": def.Server.Auth.Token,
	}
}

// BindFlags defines global command-line flags corresponding to configuration settings.
// This function should be called when setting up the root Cobra command.
func BindFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log.level", defaults.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log.format", defaults.Log.Format, "Log format (text, json)")
	flags.String("log.file", defaults.Log.File, "Path to log file (optional, leave empty for stdout)")
}
