// Package bind turns command flags into validated option structs.
package bind

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lestorrr/NetLab/cmd/netlab/internal/format"
	"github.com/lestorrr/NetLab/pkg/config"
)

// ErrInvalidOption marks a flag value the command cannot run with.
var ErrInvalidOption = errors.New("invalid option")

// ScanOptions holds the resolved options of 'netlab scan'.
type ScanOptions struct {
	Host        string
	Ports       string
	Concurrency int
	Timeout     time.Duration
	Output      format.OutputMode
	Progress    bool
	Quiet       bool
}

// BindScanOptions resolves scan flags against the loaded scan defaults.
// Flags win only when set explicitly, so config file and NETLAB_SCAN_*
// values apply otherwise.
//
// Flags read:
//   - --ports, --concurrency, --timeout
//   - --output (text, json, yaml)
//   - --progress, --quiet
func BindScanOptions(cmd *cobra.Command, args []string, defaults config.ScanConfig) (ScanOptions, error) {
	flags := cmd.Flags()

	opts := ScanOptions{
		Ports:       defaults.Ports,
		Concurrency: defaults.Concurrency,
		Timeout:     defaults.Timeout,
		Output:      format.ModeText,
	}
	if len(args) > 0 {
		opts.Host = strings.TrimSpace(args[0])
	}

	if flags.Changed("ports") {
		opts.Ports, _ = flags.GetString("ports")
	}
	if flags.Changed("concurrency") {
		opts.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("timeout") {
		opts.Timeout, _ = flags.GetDuration("timeout")
	}

	output, _ := flags.GetString("output")
	if output != "" {
		if err := format.ValidateMode(output); err != nil {
			return ScanOptions{}, fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		opts.Output = format.ParseMode(output)
	}
	opts.Progress, _ = flags.GetBool("progress")
	opts.Quiet, _ = flags.GetBool("quiet")

	if opts.Concurrency < 1 {
		return ScanOptions{}, fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidOption, opts.Concurrency)
	}
	if opts.Timeout <= 0 {
		return ScanOptions{}, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidOption, opts.Timeout)
	}

	return opts, nil
}
