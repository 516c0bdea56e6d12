// Package commands implements the mailprobe CLI.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/probelabs/mailprobe/internal/config"
)

var (
	// Global configuration
	configPath string
	debug      bool
	jsonOut    bool

	cfg *config.Config
	log *slog.Logger

	// Root command
	rootCmd = &cobra.Command{
		Use:   "mailprobe",
		Short: "mailprobe - SMTP deliverability checks without sending mail",
		Long: `mailprobe talks to a domain's mail exchangers the way a sending MTA
would, stopping right before any message is transmitted, and reports
whether each address is deliverable, undeliverable or risky.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for commands that never touch the network.
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if debug {
				cfg.Logging.Level = "debug"
			}
			log = cfg.NewLogger(cmd.ErrOrStderr())
			return nil
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "trace the SMTP dialogue to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
