package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/hookchat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	configPath  string
	ephemeral   bool
	backendName string
	webhookURL  string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hookchat",
	Short: "Chat with an AI assistant behind a webhook",
	Long: `A terminal chat client for AI assistants reachable through a webhook
(or directly through the Gemini API).

Conversations are kept as sessions in a local SQLite store and survive restarts.
The first message of a session becomes its title.

Features:
  • Multiple chat sessions, newest first
  • Two webhook payload schemas (history or session id)
  • Optional AI-generated session titles
  • Export in multiple formats (JSONL, Markdown, YAML, JSON)

Quick Start:
  hookchat chat                          # Start an interactive chat
  hookchat send "hello"                  # Send one message to the active session
  hookchat list                          # List all sessions
  hookchat export --format md            # Export as Markdown`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		internal.SyncLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (path to database file or data directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default <data dir>/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep sessions in memory only for this run")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Chat backend: webhook or gemini (overrides config)")
	rootCmd.PersistentFlags().StringVar(&webhookURL, "webhook-url", "", "Webhook URL (overrides config)")

	rootCmd.SilenceErrors = true

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
