// Package main is the entry point for the survey CLI.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Survey/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("survey: ")

	ctx, cancel := signalContext()
	err := rootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "survey",
		Short:        "Ask the yes/no survey and report ratings",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			dir, err := os.Getwd()
			if err != nil {
				return
			}
			if err := config.LoadDotEnv(dir); err != nil {
				log.Printf("ignoring .env: %v", err)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSurvey(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.AddCommand(
		resetCmd(),
		historyCmd(),
		initCmd(),
	)

	return root
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
// Once it is cancelled the default signal handling is restored, so a second
// Ctrl-C kills the process even if something ignores the context.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}
