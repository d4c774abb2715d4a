// Package cli defines the schedd command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "schedd",
	Short: "Deferrable-load scheduling backend",
	Long: `schedd schedules deferrable energy-consuming tasks onto a shared
available-power profile. It serves the account/device/task API, runs the
scheduling engine in the background, and ships a simulator for load
generation and algorithm comparison.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "schedd.toml", "Path to the TOML config file")
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
