package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lestorrr/NetLab/cmd/netlab/commands"
	"github.com/lestorrr/NetLab/cmd/netlab/internal/exitcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !exitcode.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitcode.Code(err))
	}
}
