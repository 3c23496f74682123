package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	serverCmd "github.com/lestorrr/NetLab/cmd/netlab/commands/server"
	"github.com/lestorrr/NetLab/pkg/appctx"
	"github.com/lestorrr/NetLab/pkg/cli"
	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/logging"
	"github.com/lestorrr/NetLab/pkg/paths"
)

const cliExecutable = "netlab"

// NewCommand constructs the top-level netlab CLI command, wiring global
// flags, configuration loading and logging setup.
func NewCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "NetLab is a concurrency-bounded TCP reachability scanner",
		Long: `NetLab checks which TCP ports on a host accept connections and reports
connect latency. It runs as a one-shot CLI scan or as an HTTP API server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				configFile = paths.DefaultConfigFile()
			}

			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			cfg := mgr.Get()
			if err := logging.Configure(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				File:   cfg.Log.File,
			}); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			log.Debug().Str("config", mgr.FilePath()).Msg("configuration loaded")

			ctx := appctx.WithConfig(cmd.Context(), mgr)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path (default $XDG_CONFIG_HOME/netlab/netlab.yaml)")
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "scan", Title: "Scan Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	serverCommand := serverCmd.NewCommand()
	serverCommand.GroupID = "core"
	versionCommand := cli.NewVersionCommand(cliExecutable)
	versionCommand.GroupID = "core"

	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(serverCommand)
	cmd.AddCommand(versionCommand)

	return cmd
}
