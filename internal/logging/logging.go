// Package logging wires zerolog as the service-wide logger and, optionally,
// tees it into an embedded Logdy live-tail web UI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kepler-fts/facetrackd/internal/config"
)

// Init sets the global zerolog level and writer from Config, optionally
// teeing output into an embedded Logdy live-tail web UI when
// cfg.LogdyEnabled is set. Call once at process startup, before any
// component logger is derived.
func Init(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.Environment == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	if cfg.LogdyEnabled {
		logdyWriter, _, err := StartLogdy(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("logdy: failed to start, continuing without live-tail UI")
		} else {
			out = io.MultiWriter(out, logdyWriter)
		}
	}

	log.Logger = log.Output(out).With().Str("worker_id", cfg.WorkerID).Logger()
}

// NewComponentLogger returns a logger tagged with the owning component name.
func NewComponentLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// WithCamera attaches camera_id to an existing logger.
func WithCamera(base zerolog.Logger, cameraID string) zerolog.Logger {
	return base.With().Str("camera_id", cameraID).Logger()
}

// WithTrack attaches track_id to an existing logger.
func WithTrack(base zerolog.Logger, trackID int64) zerolog.Logger {
	return base.With().Int64("track_id", trackID).Logger()
}
