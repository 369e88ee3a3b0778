package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fyerfyer/gatebench/pkg/config"
	"github.com/fyerfyer/gatebench/pkg/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive gate menu",
		Long: `Run the numbered gate menu on stdin/stdout. Per-terminal prompts and
coloured signals are enabled automatically when attached to a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd)
		},
	}
}

func (a *app) runShell(cmd *cobra.Command) error {
	defer a.logger.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// Cancellation also interrupts a pending read
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()

	c := console.New(a.store, in, out,
		console.WithLogger(a.logger),
		console.WithMaxRetries(a.cfg.Input.MaxRetries),
		console.WithInteractive(config.Enabled(a.cfg.Input.Prompts, isTerminal(in))),
		console.WithColor(config.Enabled(a.cfg.Display.Color, isTerminal(out))),
	)

	a.logger.Debug("starting shell with %d gates, %s selected", a.store.Len(), a.store.SelectedName())
	if err := c.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			a.logger.Debug("shell interrupted")
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		}
		return err
	}
	return nil
}

// isTerminal reports whether v is a file attached to a terminal
func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
