package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lestorrr/NetLab/cmd/netlab/internal/bind"
	"github.com/lestorrr/NetLab/cmd/netlab/internal/exitcode"
	"github.com/lestorrr/NetLab/cmd/netlab/internal/format"
	"github.com/lestorrr/NetLab/pkg/appctx"
	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/scanexec"
)

const noValidPorts = "No valid ports parsed"

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <host>",
		Short: "Check which TCP ports on a host accept connections",
		Long: `Attempts one TCP connect per selected port, at most --concurrency at a
time, and reports the ports that answered within --timeout together with
their connect latency. No data is sent on open connections.

At most 1000 ports are scanned per run.`,
		Example: `  netlab scan example.com
  netlab scan example.com --ports 22,80,443
  netlab scan 203.0.113.7 --ports 1-1024 --concurrency 100 --output json`,
		GroupID: "scan",
		Args:    cobra.ExactArgs(1),
		RunE:    runScan,
	}

	defaults := config.DefaultConfig().Scan
	cmd.Flags().StringP("ports", "p", defaults.Ports, "Ports and ranges to scan (e.g. '22,80,443', '1-1024')")
	cmd.Flags().Int("concurrency", defaults.Concurrency, "Maximum simultaneous connect attempts")
	cmd.Flags().Duration("timeout", defaults.Timeout, "Timeout for a single connect attempt")
	cmd.Flags().StringP("output", "o", string(format.ModeText), "Output format: text, json, yaml")
	cmd.Flags().Bool("progress", false, "Show live progress on stderr (terminal only)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().BoolP("quiet", "q", false, "Print only results")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	formatter := format.FromCommand(cmd)
	logger := log.With().Str("command", "scan").Logger()

	defaults := config.DefaultConfig().Scan
	if mgr, ok := appctx.Config(cmd.Context()); ok {
		defaults = mgr.Get().Scan
	}

	opts, err := bind.BindScanOptions(cmd, args, defaults)
	if err != nil {
		_ = formatter.PrintError(err)
		return exitcode.Reported(err, 2)
	}

	if opts.Host == "" {
		err := scanexec.ErrNoHost
		_ = formatter.PrintTotalFailureSummary("scan", err, scanexec.ErrorCode(err), scanexec.Suggestions(err))
		return exitcode.Reported(err, scanexec.ExitCode(err))
	}

	svc := appctx.Service(cmd.Context())
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		// per-scan info logs would interleave with result lines
		svc = svc.WithLogger(logger.Level(zerolog.WarnLevel))
	}

	var sinks []scanexec.ProgressSink
	if !opts.Quiet {
		sinks = append(sinks, announceScan(formatter, opts.Host))
	}
	if opts.Progress && !formatter.IsStructured() {
		if interactiveStderr() {
			sinks = append(sinks, newProgressPrinter(cmd.ErrOrStderr()))
		} else {
			logger.Debug().Msg("progress display needs a terminal on stderr; disabled")
		}
	}
	if len(sinks) > 0 {
		svc = svc.WithProgressSink(scanexec.ProgressSinkFunc(func(ev scanexec.ProgressEvent) {
			for _, sink := range sinks {
				sink.OnEvent(ev)
			}
		}))
	}

	res, err := svc.Run(cmd.Context(), scanexec.Params{
		Host:        opts.Host,
		Ports:       opts.Ports,
		Concurrency: opts.Concurrency,
		Timeout:     opts.Timeout,
	})
	if errors.Is(err, scanexec.ErrNoValidPorts) {
		return reportNoValidPorts(formatter, opts)
	}
	if err != nil {
		logger.Debug().Err(err).Msg("scan failed")
		_ = formatter.PrintTotalFailureSummary("scan", err, scanexec.ErrorCode(err), scanexec.Suggestions(err))
		return exitcode.Reported(err, scanexec.ExitCode(err))
	}

	if formatter.IsStructured() {
		return formatter.PrintData(res)
	}

	for _, r := range res.OpenPorts {
		_ = formatter.PrintLine("Port %d open (%.1f ms)", r.Port, r.LatencyMs())
	}
	if len(res.OpenPorts) == 0 {
		_ = formatter.PrintLine("No open ports found in selection.")
	}
	return formatter.PrintSummary(fmt.Sprintf("Done in %.1f ms", res.TookMs()))
}

// announceScan prints the scan banner once the service has parsed the ports.
func announceScan(formatter format.Formatter, host string) scanexec.ProgressSink {
	return scanexec.ProgressSinkFunc(func(ev scanexec.ProgressEvent) {
		if ev.Phase == "parse" && ev.Status == "completed" {
			_ = formatter.PrintLine("Scanning %d ports on %s...", ev.Total, host)
		}
	})
}

// reportNoValidPorts tells the user nothing was scanned. It is not an error.
func reportNoValidPorts(formatter format.Formatter, opts bind.ScanOptions) error {
	if formatter.IsStructured() {
		return formatter.PrintData(map[string]any{
			"success":    false,
			"host":       opts.Host,
			"error":      noValidPorts,
			"error_code": scanexec.ErrorCode(scanexec.ErrNoValidPorts),
		})
	}
	return formatter.PrintLine(noValidPorts)
}
