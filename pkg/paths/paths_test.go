package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDir(t *testing.T) {
	t.Run("XDGOverride", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		require.Equal(t, filepath.Join("/tmp/xdg-config", "netlab"), ConfigDir())
	})

	t.Run("PlatformDefault", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		switch runtime.GOOS {
		case "windows":
			t.Setenv("AppData", `C:\AppData`)
			require.Equal(t, filepath.Join(`C:\AppData`, "NetLab"), ConfigDir())
		default:
			t.Setenv("HOME", "/home/tester")
			require.Equal(t, filepath.Join("/home/tester", ".config", "netlab"), ConfigDir())
		}
	})
}

func TestDefaultConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	require.Empty(t, DefaultConfigFile(), "missing file is not reported")

	path := filepath.Join(dir, "netlab", ConfigFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))
	require.Equal(t, path, DefaultConfigFile())
}

func TestDefaultConfigFile_IgnoresDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "netlab", ConfigFileName), 0o755))

	require.Empty(t, DefaultConfigFile())
}
