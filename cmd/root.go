package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	baseURL    string
	timeout    time.Duration
	outputDir  string
	plain      bool
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	// cfg is resolved before any command runs
	cfg = internal.DefaultConfig()
)

// rootCmd starts an interactive session when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Chat with a multi-agent RAG backend",
	Long: `An interactive client for a multi-agent retrieval-augmented-generation backend.

Submit URLs for ingestion, chat with an agent that can scrape, summarize and
extract structured data, and export the extracted tables.

Features:
  • Interactive session with agent activity log
  • Direct contact or custom-category extraction
  • Charts and tables of extracted data
  • Client-side export (CSV, JSON, JSONL, YAML, Markdown, SQLite)
  • Download of exports the backend has already built

Quick Start:
  ragchat                                   # Start an interactive session
  ragchat ingest https://example.com        # Index a page
  ragchat chat "What is on the page?"       # Ask one question
  ragchat extract contacts --export out.csv # Extract and save contacts`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		return loadConfig(cmd)
	},
	RunE: runInteractive,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) error {
	c, err := internal.LoadConfig(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		c.BaseURL = baseURL
	}
	if flags.Changed("timeout") {
		c.Timeout = timeout
	}
	if flags.Changed("out") {
		c.ExportDir = outputDir
	}
	if plain {
		c.Markdown = false
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	cfg = c
	internal.LogDebug("Backend %s, timeout %s, exports in %s", cfg.BaseURL, cfg.Timeout, cfg.ExportDir)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <user config dir>/ragchat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", internal.DefaultBaseURL, "Backend address")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", internal.DefaultTimeout, "Maximum time to wait for one backend call")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "out", "o", internal.DefaultExportDir, "Directory for saved exports")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Print assistant replies as plain text instead of rendered markdown")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
