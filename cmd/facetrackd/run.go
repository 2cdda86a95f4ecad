package main

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kepler-fts/facetrackd/internal/admin"
	"github.com/kepler-fts/facetrackd/internal/adminhttp"
	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/controller"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the FTS controller and admin HTTP surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cfgSource := config.NewSource()
		ctrl := controller.New(cfgSource)
		if err := ctrl.Start(cmd.Context()); err != nil {
			return err
		}

		stop := make(chan struct{})
		go func() {
			defer close(stop)
			for next := range cfgSource.Watch(stop) {
				if err := ctrl.ApplyConfig(next); err != nil {
					log.Warn().Err(err).Msg("hot-reload apply-config failed")
				}
			}
		}()

		adapter := admin.New(ctrl)
		server := adminhttp.NewServer(cfg, adapter)
		server.Setup()

		serverErr := make(chan error, 1)
		go func() { serverErr <- server.Start() }()

		log.Info().Int("port", cfg.AdminHTTPPort).Msg("facetrackd running")

		select {
		case <-cmd.Context().Done():
			log.Info().Msg("shutdown signal received")
		case err := <-serverErr:
			if err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("admin HTTP server exited unexpectedly")
			}
		}

		close(stop)
		if err := server.Stop(cmd.Context()); err != nil {
			log.Warn().Err(err).Msg("admin HTTP server shutdown reported an issue")
		}
		return ctrl.Stop()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
