package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/webfreeze/webfreeze/internal/config"
	"github.com/webfreeze/webfreeze/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a frozen site locally for preview",
		Long: `Serve starts a local HTTP server over the frozen site directory.

The server maps URLs to files exactly like the freezer does when
writing them, so what you see locally is what a static host deploys:
"/" serves index.html, "/feed.xml" serves feed.xml, and directory URLs
without a trailing slash redirect to the slashed form.

If the site was frozen with a base URL containing a path such as
https://example.com/subdir, pass the same base URL here and the prefix
is stripped on incoming requests, keeping frozen absolute links
working.

Examples:
  # Serve ./build on localhost:8000
  webfreeze serve

  # Serve a different directory on another port
  webfreeze serve -d public -a localhost:9000

  # Preview a site frozen for a subdirectory deployment
  webfreeze serve --base-url https://example.com/subdir`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("address", "a", config.DefaultListenAddress,
		"Listen address for the preview server")
	cmd.Flags().StringP("base-url", "b", "",
		"Base URL the site was frozen for (its path prefix is stripped)")
	cmd.Flags().StringP("default-mimetype", "M", config.DefaultMimeType,
		"Content type served for files with unknown extensions")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("address") {
		cfg.ListenAddress, err = cmd.Flags().GetString("address")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL, err = cmd.Flags().GetString("base-url")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("default-mimetype") {
		cfg.DefaultMimeType, err = cmd.Flags().GetString("default-mimetype")
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(os.Stderr, cfg)

	if _, err := os.Stat(cfg.Destination); err != nil {
		return fmt.Errorf("frozen site directory %s does not exist (freeze the site first): %w",
			cfg.Destination, err)
	}

	// Stop serving on interrupt so the deferred shutdown runs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping...")
		cancel()
	}()

	srv, err := server.New(cfg.Destination, cfg.ListenAddress, cfg.BaseURL, cfg.DefaultMimeType, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Serving %s on http://%s\n", cfg.Destination, cfg.ListenAddress)
	return srv.Run(ctx)
}
