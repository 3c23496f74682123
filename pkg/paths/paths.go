// Package paths locates per-user NetLab files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is the config file looked up in ConfigDir.
const ConfigFileName = "netlab.yaml"

// ConfigDir returns the config directory for NetLab.
// Order: XDG_CONFIG_HOME/netlab, platform-specific fallback.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "netlab")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "NetLab")
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "netlab")
}

// DefaultConfigFile returns ConfigDir/netlab.yaml when that file exists,
// and "" otherwise.
func DefaultConfigFile() string {
	path := filepath.Join(ConfigDir(), ConfigFileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}
