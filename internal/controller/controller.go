// Package controller implements the FTSController: the composition root
// that owns the ModelRegistry, IdentityIndex, AttendanceRecorder and every
// CameraPipeline, and exposes the lifecycle operations the admin layer
// drives: start/stop/restart of the whole component graph, per-camera
// status aggregation, and diff-based hot-reload of camera topology.
package controller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kepler-fts/facetrackd/internal/attendance"
	"github.com/kepler-fts/facetrackd/internal/attendance/store"
	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/discovery"
	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/identity"
	"github.com/kepler-fts/facetrackd/internal/inference"
	"github.com/kepler-fts/facetrackd/internal/logging"
	"github.com/kepler-fts/facetrackd/internal/messaging"
	"github.com/kepler-fts/facetrackd/internal/models"
	"github.com/kepler-fts/facetrackd/internal/pipeline"
)

// Controller is the FTSController component. Every long-lived object in the
// process is reachable only through it; discarding it discards every
// pipeline, worker and model.
type Controller struct {
	log zerolog.Logger

	running int32 // atomic bool: 0 stopped, 1 running

	cfgSource *config.Source
	cfg       *config.Config // last-applied snapshot

	registry  *inference.Registry
	index     *identity.Index
	msg       *messaging.Service
	attStore  *store.SQLite
	recorder  *attendance.Recorder
	discovery *discovery.Discovery

	mu        sync.Mutex // guards pipelines and cfg during ApplyConfig/Start/Stop
	pipelines map[string]*pipeline.Pipeline
	applied   map[string]models.CameraDescriptor

	ctx    context.Context
	cancel context.CancelFunc

	startedAt time.Time
}

// New builds a Controller bound to a ConfigSource. It does not start any
// pipeline; call Start for that.
func New(cfgSource *config.Source) *Controller {
	return &Controller{
		log:       logging.NewComponentLogger("controller"),
		cfgSource: cfgSource,
		pipelines: make(map[string]*pipeline.Pipeline),
		applied:   make(map[string]models.CameraDescriptor),
	}
}

// Start loads models, constructs the IdentityIndex from its persistent
// store, and starts one CameraPipeline per enabled descriptor in the
// current config snapshot. Reentrant-safe: concurrent Start calls yield
// exactly one start.
func (c *Controller) Start(parent context.Context) error {
	if !atomic.CompareAndSwapInt32(&c.running, 0, 1) {
		return ftserrors.ErrAlreadyRunning
	}

	cfg := c.cfgSource.Snapshot()
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()

	registry := inference.NewRegistry(cfg)

	index, err := identity.Load(cfg.IdentityIndexPath, 0)
	if err != nil {
		c.log.Warn().Err(err).Str("path", cfg.IdentityIndexPath).Msg("no existing identity index, starting empty")
		index = identity.New(0)
	}

	attStore, err := store.NewSQLite(cfg.AttendanceDBPath)
	if err != nil {
		atomic.StoreInt32(&c.running, 0)
		return fmt.Errorf("controller: open attendance store: %w", err)
	}

	msgSvc, err := messaging.NewService(cfg)
	if err != nil {
		c.log.Warn().Err(err).Msg("messaging service unavailable, attendance events will not be announced over NATS")
		msgSvc = nil
	}

	var publisher attendance.Publisher
	if msgSvc != nil {
		publisher = msgSvc
	}
	recorder, err := attendance.New(cfg, attStore, publisher)
	if err != nil {
		atomic.StoreInt32(&c.running, 0)
		return fmt.Errorf("controller: build recorder: %w", err)
	}

	c.ctx, c.cancel = context.WithCancel(parent)
	c.registry = registry
	c.index = index
	c.attStore = attStore
	c.msg = msgSvc
	c.recorder = recorder
	c.discovery = discovery.New(cfg)
	c.startedAt = time.Now()

	c.mu.Lock()
	c.pipelines = make(map[string]*pipeline.Pipeline)
	c.applied = make(map[string]models.CameraDescriptor)
	c.mu.Unlock()

	for _, desc := range cfg.Cameras {
		if !desc.Enabled {
			continue
		}
		c.startPipeline(desc)
	}

	c.log.Info().Int("cameras", len(c.pipelines)).Msg("FTS controller started")
	return nil
}

// startPipeline constructs and starts one pipeline, registering it under
// desc.ID. Caller must not hold c.mu.
func (c *Controller) startPipeline(desc models.CameraDescriptor) {
	p := pipeline.New(c.cfg, desc, c.registry, c.index, c.recorder)
	if err := p.Start(c.ctx); err != nil {
		c.log.Error().Err(err).Str("camera_id", desc.ID).Msg("failed to start pipeline")
		return
	}
	c.mu.Lock()
	c.pipelines[desc.ID] = p
	c.applied[desc.ID] = desc
	c.mu.Unlock()
}

// Stop signals every pipeline, waits up to cfg.ShutdownDeadline for drain,
// then tears down shared collaborators. Reentrant-safe.
func (c *Controller) Stop() error {
	if !atomic.CompareAndSwapInt32(&c.running, 1, 0) {
		return ftserrors.ErrNotRunning
	}

	c.mu.Lock()
	pipelines := c.pipelines
	c.pipelines = make(map[string]*pipeline.Pipeline)
	c.applied = make(map[string]models.CameraDescriptor)
	c.mu.Unlock()

	var wg sync.WaitGroup
	for id, p := range pipelines {
		wg.Add(1)
		go func(id string, p *pipeline.Pipeline) {
			defer wg.Done()
			if err := p.Stop(); err != nil {
				c.log.Warn().Err(err).Str("camera_id", id).Msg("pipeline stop reported an issue")
			}
		}(id, p)
	}
	wg.Wait()

	if c.cancel != nil {
		c.cancel()
	}

	if c.index != nil {
		if err := c.index.Persist(c.cfg.IdentityIndexPath); err != nil {
			c.log.Warn().Err(err).Msg("failed to persist identity index on shutdown")
		}
	}
	if c.msg != nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.NatsDrainTimeout)
		defer cancel()
		if err := c.msg.Shutdown(ctx); err != nil {
			c.log.Warn().Err(err).Msg("messaging service shutdown reported an issue")
		}
	}
	if c.registry != nil {
		c.registry.Close()
	}

	c.log.Info().Msg("FTS controller stopped")
	return nil
}

// Restart is Stop followed by Start with a freshly taken config snapshot.
func (c *Controller) Restart(parent context.Context) error {
	if err := c.Stop(); err != nil && err != ftserrors.ErrNotRunning {
		return err
	}
	return c.Start(parent)
}

// Status aggregates per-pipeline state, uptime and cumulative counters.
func (c *Controller) Status() models.FTSStatus {
	running := atomic.LoadInt32(&c.running) == 1

	c.mu.Lock()
	pipelines := make([]*pipeline.Pipeline, 0, len(c.pipelines))
	for _, p := range c.pipelines {
		pipelines = append(pipelines, p)
	}
	c.mu.Unlock()

	statuses := make([]models.CameraStatus, 0, len(pipelines))
	for _, p := range pipelines {
		statuses = append(statuses, p.Status())
	}

	identities := 0
	if c.index != nil {
		identities = c.index.Len()
	}

	uptime := 0.0
	if running {
		uptime = time.Since(c.startedAt).Seconds()
	}

	recorderErr := ""
	if c.recorder != nil {
		if err := c.recorder.Health(); err != nil {
			recorderErr = err.Error()
		}
	}

	return models.FTSStatus{
		Running:       running,
		UptimeSecs:    uptime,
		Cameras:       statuses,
		Identities:    identities,
		RecorderError: recorderErr,
	}
}

// ApplyConfig diffs the new descriptor set against the last-applied one and
// performs the minimal set of pipeline stop/start operations: unchanged
// descriptors are left running untouched, changed descriptors are stopped
// and restarted, new descriptors start pipelines, removed ones are stopped.
func (c *Controller) ApplyConfig(next *config.Config) error {
	if atomic.LoadInt32(&c.running) == 0 {
		return ftserrors.ErrNotRunning
	}

	c.mu.Lock()
	c.cfg = next
	prevApplied := c.applied
	c.mu.Unlock()

	nextByID := make(map[string]models.CameraDescriptor, len(next.Cameras))
	for _, d := range next.Cameras {
		nextByID[d.ID] = d
	}

	plan := diffDescriptors(prevApplied, nextByID)

	for _, id := range plan.stop {
		c.stopPipeline(id)
	}
	for _, id := range plan.restart {
		c.stopPipeline(id)
		c.startPipeline(nextByID[id])
	}
	for _, id := range plan.start {
		c.startPipeline(nextByID[id])
	}

	c.log.Info().Int("cameras", len(nextByID)).Msg("config applied")
	return nil
}

// configPlan is the minimal set of pipeline operations ApplyConfig must
// perform to move from one applied descriptor set to another.
type configPlan struct {
	stop    []string // present before, absent or disabled now
	restart []string // present both times but changed
	start   []string // absent before, present and enabled now
}

// diffDescriptors computes the minimal stop/restart/start plan. Unchanged
// descriptors are left out of every list entirely.
func diffDescriptors(prev, next map[string]models.CameraDescriptor) configPlan {
	var plan configPlan
	for id, prevDesc := range prev {
		nextDesc, stillPresent := next[id]
		if !stillPresent || !nextDesc.Enabled {
			plan.stop = append(plan.stop, id)
			continue
		}
		if !prevDesc.Equal(nextDesc) {
			plan.restart = append(plan.restart, id)
		}
	}
	for id, desc := range next {
		if !desc.Enabled {
			continue
		}
		if _, existed := prev[id]; !existed {
			plan.start = append(plan.start, id)
		}
	}
	return plan
}

func (c *Controller) stopPipeline(id string) {
	c.mu.Lock()
	p, ok := c.pipelines[id]
	if ok {
		delete(c.pipelines, id)
		delete(c.applied, id)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	if err := p.Stop(); err != nil {
		c.log.Warn().Err(err).Str("camera_id", id).Msg("pipeline stop reported an issue")
	}
}

// Discover runs a fresh CameraDiscovery pass. Valid whether or not the
// controller is running, since discovery does not touch any pipeline.
func (c *Controller) Discover(ctx context.Context) ([]models.DiscoveredCamera, error) {
	c.mu.Lock()
	d := c.discovery
	cfg := c.cfg
	c.mu.Unlock()
	if d == nil {
		d = discovery.New(cfg)
	}
	return d.Run(ctx)
}

// Index exposes the shared IdentityIndex for the admin adapter's
// Enroll/RemoveIdentity operations.
func (c *Controller) Index() *identity.Index {
	return c.index
}

// Registry exposes the shared ModelRegistry, used by Enroll to extract an
// embedding from a submitted enrollment image.
func (c *Controller) Registry() *inference.Registry {
	return c.registry
}

// PipelineFor returns the running pipeline for cameraID, used by
// SubscribeMJPEG.
func (c *Controller) PipelineFor(cameraID string) (*pipeline.Pipeline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pipelines[cameraID]
	return p, ok
}

// Snapshot returns the last-applied config, mirroring ConfigSource.Snapshot
// for the admin adapter's Snapshot() operation.
func (c *Controller) Snapshot() *config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}
