// Package cmd implements kaido's CLI surface: a cobra root command plus the
// coach REPL, a config wizard, and audit-log query subcommands. Grounded on
// the teacher's cobra usage in cmd/{ask,serve,status}.go; the graceful
// signal-driven shutdown wiring is adapted from internal/server/server.go's
// Run method.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kaido-cli/kaido/internal/config"
)

// Version is set at build via ldflags or defaults to the current release.
var Version = "0.1.0"

// logger is the process-wide structured logger (spec §6's "Log file"
// interface), built once in Execute and read by this package's subcommands;
// it is not installed as the global slog default.
var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "kaido",
	Short: "An AI ops coach for your terminal",
	Long: `kaido investigates operational problems on a live host by
translating a natural-language description into kubectl, docker, nginx,
apache2, network and SQL commands, explaining each one before it runs, and
gating anything destructive behind a confirmation step sized to its risk.`,
}

// Execute runs the root command, wiring SIGINT/SIGTERM to a cancellable
// context so a running investigation can be interrupted cleanly between
// ReAct loop iterations.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var closeLogger func() error
	logger, closeLogger = config.NewLogger(cfg)
	defer closeLogger()

	rootCmd.SetContext(ctx)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
