package bind

import (
	"github.com/spf13/cobra"

	"github.com/lestorrr/NetLab/pkg/config"
	srv "github.com/lestorrr/NetLab/pkg/server"
)

// ServerOptions holds configuration options for the server start command.
type ServerOptions struct {
	Config   config.ServerConfig
	LockFile string
}

// BindServerOptions extracts and validates server command options.
//
// The server.* flags reach cfg through the config manager; this only reads
// the flags that are not configuration keys and checks the port range so the
// user gets a specific error before full validation.
func BindServerOptions(cmd *cobra.Command, cfg config.ServerConfig) (ServerOptions, error) {
	lockFile, _ := cmd.Flags().GetString("lock-file")

	if cfg.Port < 1 || cfg.Port > 65535 {
		return ServerOptions{}, srv.NewInvalidPortError(cfg.Port)
	}

	return ServerOptions{
		Config:   cfg,
		LockFile: lockFile,
	}, nil
}
