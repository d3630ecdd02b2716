// Package cmd implements the CLI commands for validatord.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

var (
	globalConfigPath string
	globalLogFormat  string
	globalDebug      bool
)

var rootCmd = &cobra.Command{
	Use:   "validatord",
	Short: "Declarative host, process, and filesystem validation engine",
	Long: `validatord watches a declared list of services — processes, files,
directories, filesystems, programs, remote hosts, and the system itself —
against operator-defined rules, and posts FAILED/SUCCEEDED/CHANGED events
to an event store every cycle.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalConfigPath, "config", "c", "", "path to the YAML config file (default: $XDG_CONFIG_HOME/validatord/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "log output format: text or json")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
}

func setupLogging() *slog.Logger {
	level := slog.LevelInfo
	if globalDebug {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	if globalLogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
