package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/logging"
	"github.com/kepler-fts/facetrackd/internal/models"
)

// Discovery runs the CameraDiscovery operation: local device enumeration,
// ONVIF WS-Discovery multicast, and a bounded-fanout TCP port scan, merged
// and deduplicated by locator.
type Discovery struct {
	log zerolog.Logger
	cfg *config.Config
}

func New(cfg *config.Config) *Discovery {
	return &Discovery{log: logging.NewComponentLogger("discovery"), cfg: cfg}
}

// Run executes every probe strategy concurrently and returns the merged,
// deduplicated, capability-enriched candidate list. It is cancellable
// mid-flight via ctx.
func (d *Discovery) Run(ctx context.Context) ([]models.DiscoveredCamera, error) {
	subnet := d.cfg.DiscoverSubnet
	if subnet == "" {
		auto, err := primarySubnet()
		if err != nil {
			d.log.Warn().Err(err).Msg("could not derive primary subnet, skipping port scan")
		} else {
			subnet = auto
		}
	}

	type result struct {
		cams []models.DiscoveredCamera
		err  error
	}
	results := make(chan result, 3)

	go func() {
		results <- result{cams: localDevices(d.cfg.DiscoverDevicesMax)}
	}()
	go func() {
		cams, err := probeONVIF(ctx, d.cfg.DiscoverProbeTimeout*4)
		results <- result{cams: cams, err: err}
	}()
	go func() {
		if subnet == "" {
			results <- result{}
			return
		}
		cams, err := portScan(ctx, subnet, d.cfg.DiscoverPorts, d.cfg.DiscoverFanout, d.cfg.DiscoverProbeTimeout)
		results <- result{cams: cams, err: err}
	}()

	var merged []models.DiscoveredCamera
	var firstErr error
	for i := 0; i < 3; i++ {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		merged = append(merged, r.cams...)
	}
	if len(merged) == 0 && firstErr != nil {
		return nil, fmt.Errorf("%w: %v", ftserrors.ErrDiscoveryTimeout, firstErr)
	}

	deduped := dedupe(merged)
	now := time.Now()
	for i := range deduped {
		deduped[i].DiscoveredAt = now
		Enrich(&deduped[i], d.cfg.DiscoverProbeTimeout)
	}
	return deduped, nil
}

func dedupe(cams []models.DiscoveredCamera) []models.DiscoveredCamera {
	seen := make(map[string]bool, len(cams))
	out := make([]models.DiscoveredCamera, 0, len(cams))
	for _, c := range cams {
		key := string(c.Kind) + "|" + c.Locator
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
