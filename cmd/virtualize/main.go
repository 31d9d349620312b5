package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cybergodev/virtualize/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "virtualize",
		Short: "Convert HTML into virtual-DOM node trees",
		Long: `virtualize turns HTML markup into snabbdom-style virtual node trees.

Markup is read from files or stdin and written as JSON or YAML. The serve
command exposes the same conversion over HTTP.

Configuration is read from VIRTUALIZE_* environment variables; flags
override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, text)")
	flags.IntVar(&cfg.MaxInputBytes, "max-input-bytes", cfg.MaxInputBytes, "Maximum input size in bytes")
	flags.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "Maximum element nesting depth")
	flags.BoolVar(&cfg.Sanitize, "sanitize", cfg.Sanitize, "Strip scripts, event attributes and unsafe URLs")

	rootCmd.AddCommand(
		convertCmd(&cfg),
		serveCmd(&cfg),
		versionCmd(),
	)
	return rootCmd
}
