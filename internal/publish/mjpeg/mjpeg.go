// Package mjpeg implements the MJPEGPublisher: a per-pipeline broadcast
// primitive that hands annotated frames to any number of subscribers as
// JPEG bytes, one instance per CameraPipeline, with bounded, drop-oldest
// subscriber delivery so a slow reader can never stall the pipeline.
package mjpeg

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/logging"
	"github.com/kepler-fts/facetrackd/internal/models"
)

// Publisher broadcasts one camera's encoded frames to its subscribers.
// A subscriber that falls behind is served only the latest frame; the
// publisher never blocks on a slow consumer.
type Publisher struct {
	log      zerolog.Logger
	cameraID string
	subBuf   int

	mu        sync.Mutex
	subs      map[int]chan []byte
	nextSubID int

	lastFrameMu sync.Mutex
	lastFrameAt time.Time

	placeholderHz int
	placeholder   []byte

	closeOnce sync.Once
	done      chan struct{}
}

// NewPublisher builds a Publisher for one camera. Call Run to start the
// "no signal" placeholder ticker; it exits when ctx is cancelled or Close
// is called.
func NewPublisher(cfg *config.Config, cameraID string) *Publisher {
	p := &Publisher{
		log:           logging.WithCamera(logging.NewComponentLogger("mjpeg"), cameraID),
		cameraID:      cameraID,
		subBuf:        max(cfg.MJPEGSubscriberBuffer, 1),
		subs:          make(map[int]chan []byte),
		placeholderHz: max(cfg.MJPEGPlaceholderHz, 1),
		done:          make(chan struct{}),
	}
	p.placeholder = renderPlaceholder(cameraID, "waiting for signal...")
	return p
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// hasSubscribers reports whether encoding work is worth doing.
func (p *Publisher) hasSubscribers() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs) > 0
}

// PublishFrame encodes frame as JPEG and broadcasts it, but only if at
// least one subscriber is attached; otherwise it is a no-op, so frames are
// never encoded unless something is actually watching.
func (p *Publisher) PublishFrame(frame *models.ProcessedFrame) error {
	p.lastFrameMu.Lock()
	p.lastFrameAt = time.Now()
	p.lastFrameMu.Unlock()

	if !p.hasSubscribers() {
		return nil
	}

	jpeg, err := encodeJPEG(frame.Width, frame.Height, frame.RawData)
	if err != nil {
		return fmt.Errorf("mjpeg: encode frame: %w", err)
	}
	p.broadcast(jpeg)
	return nil
}

func encodeJPEG(width, height int, bgr []byte) ([]byte, error) {
	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, 90})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func (p *Publisher) broadcast(jpeg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, ch := range p.subs {
		select {
		case ch <- jpeg:
		default:
			// Subscriber is behind; drop its oldest buffered frame and
			// send the current one in its place (latest-wins).
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- jpeg:
			default:
				p.log.Debug().Int("subscriber", id).Msg("subscriber still full, dropping frame")
			}
		}
	}
}

// Subscribe registers a new subscriber. The returned channel receives the
// next produced frame as its first delivery, never a buffered prior one.
// The caller must invoke unsubscribe when done.
func (p *Publisher) Subscribe() (ch <-chan []byte, unsubscribe func()) {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	c := make(chan []byte, p.subBuf)
	p.subs[id] = c
	p.mu.Unlock()

	return c, func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Run drives the 1Hz "no signal" placeholder: whenever no real frame has
// been published for longer than one placeholder tick, subscribers are
// sent a synthesized frame instead of being starved.
func (p *Publisher) Run(ctx context.Context) {
	interval := time.Second / time.Duration(p.placeholderHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-ticker.C:
			p.lastFrameMu.Lock()
			stale := time.Since(p.lastFrameAt) >= interval
			p.lastFrameMu.Unlock()
			if stale && p.hasSubscribers() {
				p.broadcast(p.placeholder)
			}
		}
	}
}

// Close releases the placeholder ticker goroutine and closes every
// subscriber channel so readers blocked in a range/receive loop observe
// shutdown instead of waiting on their caller's own context.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.mu.Lock()
		for _, ch := range p.subs {
			close(ch)
		}
		p.subs = make(map[int]chan []byte)
		p.mu.Unlock()
	})
}

func renderPlaceholder(cameraID, message string) []byte {
	mat := gocv.NewMatWithSize(360, 640, gocv.MatTypeCV8UC3)
	defer mat.Close()
	mat.SetTo(gocv.NewScalar(64, 64, 64, 0))

	textColor := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.PutText(&mat, fmt.Sprintf("camera: %s", cameraID), image.Pt(20, 170), gocv.FontHersheySimplex, 0.8, textColor, 2)
	gocv.PutText(&mat, message, image.Pt(20, 200), gocv.FontHersheySimplex, 0.7, textColor, 2)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, 90})
	if err != nil {
		return nil
	}
	defer buf.Close()
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out
}
