package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	flagConfig string
	flagDSN    string
	flagDebug  bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ferrumdb",
	Short: "Modal terminal SQL client",
	Long: `ferrumdb opens one database connection and lets you type and run SQL
statements in a modal terminal UI.

Navigation mode: i edits the query, r clears results, q or ctrl+c quits.
Editing mode: enter runs the query and returns to navigation, ctrl+enter or
alt+enter runs it and keeps editing, esc returns to navigation.

The connection comes from the [database] section of the config file, or from
--dsn (postgres://, mysql:// or sqlite:// URL, or a sqlite file path).`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/ferrumdb/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "connection URL overriding the configured database")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write debug logging to debug.log")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(setPasswordCmd)
}

// setupLogging sends the standard logger to debug.log under --debug and
// discards it otherwise, since stderr belongs to the TUI
func setupLogging() error {
	if !flagDebug {
		log.SetOutput(io.Discard)
		return nil
	}
	// LogToFile also points the standard logger at the file
	if _, err := tea.LogToFile("debug.log", "debug"); err != nil {
		return fmt.Errorf("could not open debug log: %w", err)
	}
	return nil
}
