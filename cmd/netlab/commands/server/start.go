package server

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lestorrr/NetLab/cmd/netlab/internal/bind"
	"github.com/lestorrr/NetLab/cmd/netlab/internal/exitcode"
	"github.com/lestorrr/NetLab/cmd/netlab/internal/format"
	"github.com/lestorrr/NetLab/pkg/appctx"
	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/logging"
	"github.com/lestorrr/NetLab/pkg/scanexec"
	serversvc "github.com/lestorrr/NetLab/pkg/server"
	"github.com/lestorrr/NetLab/pkg/server/app"
)

// newStartServerCommand creates the 'netlab server start' command.
//
// The server hosts the scan API (POST /api/v1/port-scan) and the health
// endpoints (/healthz, /readyz). It runs until interrupted (SIGINT/SIGTERM)
// and then drains in-flight requests. SIGUSR1 re-opens the log file.
//
// Configuration precedence: flags > NETLAB_* environment > config file > defaults.
//
// Example usage:
//
//	netlab server start
//	netlab server start --server.addr 0.0.0.0 --server.port 8080
//	netlab server start -c netlab.yaml --lock-file /run/netlab/server.lock
func newStartServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the NetLab API server",
		Long: `Start the NetLab HTTP API server.

Scan requests are checked against the deny list, rate limited per client and
capped to server.max_ports ports. Edits to server.deny_list in the config file
are picked up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)
			fail := func(err error) error {
				_ = formatter.PrintTotalFailureSummary("start server", err, serversvc.ErrorCode(err), serversvc.Suggestions(err))
				return exitcode.Reported(err, serversvc.ExitCode(err))
			}

			cfgMgr, ok := appctx.Config(cmd.Context())
			if !ok {
				return fail(serversvc.ErrConfigUnavailable)
			}
			cfg := cfgMgr.Get()

			opts, err := bind.BindServerOptions(cmd, cfg.Server)
			if err != nil {
				return fail(err)
			}

			if err := opts.Config.Validate(); err != nil {
				return fail(serversvc.WrapInvalidConfig(err))
			}

			if opts.LockFile != "" {
				lock, err := serversvc.AcquireLock(opts.LockFile)
				if err != nil {
					return fail(err)
				}
				defer func() { _ = lock.Release() }()
			}

			logger := logging.NewLogger("server", zerolog.InfoLevel)

			deps := &app.Deps{
				Scanner: scanexec.NewService().WithLogger(logger),
				Config:  cfgMgr,
				Logger:  logger,
			}

			serverApp, err := app.New(cmd.Context(), opts.Config, cfg.Scan, deps)
			if err != nil {
				return fail(serversvc.WrapAppInit(err))
			}

			if err := serversvc.NewServer(serverApp).Run(cmd.Context()); err != nil {
				return fail(serversvc.WrapRuntime(err))
			}
			return nil
		},
	}

	config.BindServerFlags(cmd.Flags())
	cmd.Flags().String("lock-file", "", "Refuse to start while another server holds this lock file")
	cmd.Flags().StringP("output", "o", string(format.ModeText), "Output format for errors: text, json")
	cmd.Flags().Bool("no-color", false, "Disable colored output")

	return cmd
}
