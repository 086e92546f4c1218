// Package main provides the entry point for the webfreeze CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/webfreeze/webfreeze/internal/config"
	"github.com/webfreeze/webfreeze/internal/log"
)

// NewRootCmd creates the root command for webfreeze.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webfreeze",
		Short: "Preview and track statically frozen web sites",
		Long: `webfreeze works with sites frozen by the freezer library.

It serves a frozen build directory locally with the same URL-to-file
mapping the freezer uses, scaffolds a .webfreeze configuration file,
and compares recorded freeze runs to show which pages were added,
removed, or changed between builds.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .webfreeze in current or home directory)")
	cmd.PersistentFlags().StringP("destination", "d", "",
		"Frozen site directory (default: \"build\")")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig creates a Config from the persistent flags and the
// optional configuration file. Precedence, lowest to highest: built-in
// defaults, config file, explicit CLI flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if it
	// is not found. If no path was specified, a missing file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.ApplyTo(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags win over the config file, so only apply the ones the user
	// actually set.
	if cmd.Flags().Changed("destination") {
		cfg.Destination, err = cmd.Flags().GetString("destination")
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupLogger creates the structured logger shared by all commands.
// Destination paths in log records are shown relative to the frozen
// site directory.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	logger := log.NewLogger(w, cfg.Destination, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}
