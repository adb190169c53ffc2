package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openfield/pickup/internal/client"
)

var (
	cfg *Config
	api *client.Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "pickup",
		Short: "CLI tool for the pickup match API",
		Long: `pickup is a CLI tool for organizing pickup sports matches.

It manages match rosters with capacity and waitlists, handles guest and
registered accounts, and keeps a local view of matches reconciled with
the server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := cfg.LoadTokens()
			if err != nil {
				return err
			}

			api = client.New(cfg.ServerURL, tokens)
			api.OnTokensChanged(func(t client.Tokens) {
				_ = cfg.SaveTokens(t)
			})
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PICKUP_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.CredentialsFile, "credentials-file", cfg.CredentialsFile, "Credentials file path (env: PICKUP_CREDENTIALS_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cliLogger returns a logger for the client-side services. It stays
// quiet unless --verbose is set.
func cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
