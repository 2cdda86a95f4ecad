// Package pipeline implements the CameraPipeline: one instance per enabled
// camera, composing Capture -> Detect -> Embed -> Identify -> Track ->
// TripwireEvaluate -> Publish -> Record. Each stage runs as its own
// goroutine wired through small buffered channels with a drop-oldest
// backpressure policy, and the whole pipeline is driven by an atomic state
// machine so Status() never needs to block on the stage goroutines.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kepler-fts/facetrackd/internal/attendance"
	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/identity"
	"github.com/kepler-fts/facetrackd/internal/inference"
	"github.com/kepler-fts/facetrackd/internal/logging"
	"github.com/kepler-fts/facetrackd/internal/models"
	"github.com/kepler-fts/facetrackd/internal/publish/mjpeg"
)

// pipelineState is the atomic backing store for models.PipelineState. Zero
// value is stateStopped so a freshly constructed Pipeline reports stopped
// before Start is ever called.
type pipelineState int32

const (
	stateStopped pipelineState = iota
	stateInitializing
	stateRunning
	stateDegraded
	stateStopping
)

func (s pipelineState) toModel() models.PipelineState {
	switch s {
	case stateInitializing:
		return models.StateInitializing
	case stateRunning:
		return models.StateRunning
	case stateDegraded:
		return models.StateDegraded
	case stateStopping:
		return models.StateStopping
	default:
		return models.StateStopped
	}
}

// Pipeline is one camera's full capture-through-record pipeline.
type Pipeline struct {
	log  zerolog.Logger
	cfg  *config.Config
	desc models.CameraDescriptor

	registry  *inference.Registry
	index     *identity.Index
	recorder  *attendance.Recorder
	publisher *mjpeg.Publisher

	state int32 // pipelineState, atomic

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	rawFrames    chan *models.RawFrame        // cap 1, Capture -> process
	toPublish    chan *models.ProcessedFrame  // cap 4, process -> Publish
	toRecord     chan *models.ProcessedFrame  // cap 4, process -> Record

	tracks      map[int64]*models.Track
	nextTrackID int64

	minuteErrors   int64
	minuteStart    int64 // unix seconds, atomic
	captureFailRun int32 // consecutive capture failures, atomic

	startedAt time.Time

	statsMu      sync.RWMutex
	fpsIn        *fpsCounter
	fpsOut       *fpsCounter
	detections   int64
	recognitions int64
	lastError    string
}

// New constructs a Pipeline for one camera descriptor. registry, index and
// recorder are shared across every pipeline in the process.
func New(cfg *config.Config, desc models.CameraDescriptor, registry *inference.Registry, index *identity.Index, recorder *attendance.Recorder) *Pipeline {
	return &Pipeline{
		log:       logging.WithCamera(logging.NewComponentLogger("pipeline"), desc.ID),
		cfg:       cfg,
		desc:      desc,
		registry:  registry,
		index:     index,
		recorder:  recorder,
		publisher: mjpeg.NewPublisher(cfg, desc.ID),
		tracks:    make(map[int64]*models.Track),
		fpsIn:     newFPSCounter(30),
		fpsOut:    newFPSCounter(30),
	}
}

// outputSize returns the camera's configured frame dimensions, falling
// back to a sane default when the descriptor leaves them zero.
func (p *Pipeline) outputSize() (width, height int) {
	width, height = p.desc.Width, p.desc.Height
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 360
	}
	return width, height
}

func (p *Pipeline) getState() pipelineState {
	return pipelineState(atomic.LoadInt32(&p.state))
}

func (p *Pipeline) setState(s pipelineState) {
	atomic.StoreInt32(&p.state, int32(s))
}

// Start launches the capture, process, publish and record stages. It
// returns ErrAlreadyRunning if the pipeline is not currently stopped.
func (p *Pipeline) Start(parent context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.state, int32(stateStopped), int32(stateInitializing)) {
		return ftserrors.ErrAlreadyRunning
	}

	p.ctx, p.cancel = context.WithCancel(parent)
	p.rawFrames = make(chan *models.RawFrame, 1)
	p.toPublish = make(chan *models.ProcessedFrame, 4)
	p.toRecord = make(chan *models.ProcessedFrame, 4)
	p.tracks = make(map[int64]*models.Track)
	p.startedAt = time.Now()
	atomic.StoreInt32(&p.captureFailRun, 0)
	atomic.StoreInt64(&p.minuteErrors, 0)

	p.wg.Add(4)
	go p.captureLoop()
	go p.processLoop()
	go p.publishLoop()
	go p.recordLoop()
	go p.publisher.Run(p.ctx)

	p.log.Info().Str("source", p.desc.Locator).Msg("pipeline started")
	return nil
}

// Stop signals every stage to drain and waits up to cfg.ShutdownDeadline
// before returning regardless of whether stages finished, so a wedged
// capture source can never block a controller-wide shutdown.
func (p *Pipeline) Stop() error {
	for {
		cur := p.getState()
		if cur == stateStopped || cur == stateStopping {
			return ftserrors.ErrNotRunning
		}
		if atomic.CompareAndSwapInt32(&p.state, int32(cur), int32(stateStopping)) {
			break
		}
	}

	p.log.Info().Msg("pipeline stopping")
	if p.cancel != nil {
		p.cancel()
	}
	p.publisher.Close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Debug().Msg("pipeline stages drained")
	case <-time.After(p.cfg.ShutdownDeadline):
		p.log.Warn().Msg("pipeline shutdown deadline exceeded, stages may still be unwinding")
	}

	p.setState(stateStopped)
	p.log.Info().Msg("pipeline stopped")
	return nil
}

// Status reports the pipeline's current state and cumulative counters.
func (p *Pipeline) Status() models.CameraStatus {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	return models.CameraStatus{
		ID:                p.desc.ID,
		State:             p.getState().toModel(),
		FPSIn:             p.fpsIn.Value(),
		FPSOut:            p.fpsOut.Value(),
		LastError:         p.lastError,
		DetectionsTotal:   atomic.LoadInt64(&p.detections),
		RecognitionsTotal: atomic.LoadInt64(&p.recognitions),
	}
}

// Subscribe exposes the underlying MJPEGPublisher subscription, used by the
// admin HTTP surface to stream a camera.
func (p *Pipeline) Subscribe() (<-chan []byte, func()) {
	return p.publisher.Subscribe()
}

func (p *Pipeline) addDetections(n int64) {
	atomic.AddInt64(&p.detections, n)
}

func (p *Pipeline) addRecognitions(n int64) {
	atomic.AddInt64(&p.recognitions, n)
}

func (p *Pipeline) recordError(err error) {
	p.statsMu.Lock()
	p.lastError = err.Error()
	p.statsMu.Unlock()
}

// noteMinuteError increments the per-minute detector/embedder error
// counter, resetting the window every 60s, and promotes the pipeline to
// Degraded once cfg.FailThresholdPerMin is crossed.
func (p *Pipeline) noteMinuteError() {
	now := time.Now().Unix()
	start := atomic.LoadInt64(&p.minuteStart)
	if now-start >= 60 {
		atomic.StoreInt64(&p.minuteStart, now)
		atomic.StoreInt64(&p.minuteErrors, 0)
	}
	count := atomic.AddInt64(&p.minuteErrors, 1)
	if count > int64(p.cfg.FailThresholdPerMin) {
		p.enterDegraded(fmt.Errorf("per-minute error ceiling exceeded: %d errors", count))
	}
}

func (p *Pipeline) enterDegraded(err error) {
	if err != nil {
		p.recordError(err)
	}
	for {
		cur := p.getState()
		if cur != stateRunning && cur != stateInitializing {
			return
		}
		if atomic.CompareAndSwapInt32(&p.state, int32(cur), int32(stateDegraded)) {
			p.log.Warn().Err(err).Msg("pipeline entering degraded state")
			return
		}
	}
}

func (p *Pipeline) exitDegraded() {
	if atomic.CompareAndSwapInt32(&p.state, int32(stateDegraded), int32(stateRunning)) {
		p.log.Info().Msg("pipeline recovered, returning to running state")
		return
	}
	atomic.CompareAndSwapInt32(&p.state, int32(stateInitializing), int32(stateRunning))
}

// fpsCounter is a rolling-window fps estimator.
type fpsCounter struct {
	mu     sync.Mutex
	window int
	times  []time.Time
}

func newFPSCounter(window int) *fpsCounter {
	return &fpsCounter{window: window, times: make([]time.Time, 0, window)}
}

func (f *fpsCounter) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.times = append(f.times, time.Now())
	if len(f.times) > f.window {
		f.times = f.times[1:]
	}
}

func (f *fpsCounter) Value() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.times) < 2 {
		return 0
	}
	span := f.times[len(f.times)-1].Sub(f.times[0]).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(len(f.times)-1) / span
}
