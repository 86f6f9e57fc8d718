package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	defaults := DefaultConfig()
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "playerctl",
		Short: "CLI tool for the player roster API",
		Long: `playerctl is a CLI tool for interacting with the player roster JSON API.

It supports listing and counting players with filters, and creating,
updating and deleting individual players.

Settings are read from flags, PLAYERCTL_* environment variables and
~/.playerctl.yaml, in that order of priority.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			cfg = loaded

			client = NewClient(cfg.ServerURL, cfg.Timeout)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.playerctl.yaml)")
	rootCmd.PersistentFlags().String("server", defaults.ServerURL, "Server URL (env: PLAYERCTL_SERVER)")
	rootCmd.PersistentFlags().StringP("output", "o", defaults.Output, "Output format: text, json (env: PLAYERCTL_OUTPUT)")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Request timeout (env: PLAYERCTL_TIMEOUT)")

	// Add subcommands
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
