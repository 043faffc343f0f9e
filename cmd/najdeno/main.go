package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/najdeno/internal/config"
)

// cfg is loaded once before any subcommand runs. Flags set on the command
// line override the environment.
var cfg *config.Config

var closeLog func()

var rootCmd = &cobra.Command{
	Use:           "najdeno",
	Short:         "Campus lost and found",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		cfg = loaded

		closeLog, err = setupLogger(cfg.LogPath, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
		}
	},
}

var (
	flagAddr string
	flagDB   string
	flagLog  string
	verbose  bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagDB, "db", "d", "", "SQLite database path (env NAJDENO_DB, default najdeno.sqlite3)")
	pf.StringVarP(&flagLog, "log", "l", "", "also write logs to this file (env NAJDENO_LOG)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		c.Addr = flagAddr
	}
	if flags.Changed("db") {
		c.DB = flagDB
	}
	if flags.Changed("log") {
		c.LogPath = flagLog
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if cfg != nil {
			slog.Error("exiting", "error", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
