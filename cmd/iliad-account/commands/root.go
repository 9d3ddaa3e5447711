package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"iliad-account/lib/serviceutil"
	"iliad-account/lib/telemetry"

	"github.com/spf13/cobra"
)

const serviceName = "iliad-account"

var configPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "iliad-account",
	Short: "iliad-account scrapes the remaining credit of an iliad account and publishes it.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
		if verbose {
			slog.DebugContext(cmd.Context(), "verbose logging enabled")
		}

		err := telemetry.SetupFromEnv(cmd.Context(), serviceName)
		if err != nil {
			serviceutil.Fatal("setup telemetry", err)
		}
		telemetry.InstrumentPerfStats(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := telemetry.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shut down telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file to read, config.local.json5 overrides are merged in.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enables debug logging and HTTP dumps under dev/.state.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
