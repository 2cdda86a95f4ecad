// Package main implements the facetrackd CLI: run, discover, enroll, and
// status commands over the FTS core. Command-tree shape grounded on
// andresmejia3-Sentinel's cmd/root.go (persistent context wired to
// SIGINT/SIGTERM, subcommands registered from init()).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/logging"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "facetrackd",
	Short:   "Multi-camera Face Tracking Service",
	Version: version,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads and validates Config, initializing logging before any
// command body runs. Every subcommand calls this first.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Init(cfg)
	return cfg, nil
}
