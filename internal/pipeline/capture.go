package pipeline

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/models"
)

// openCapture opens the camera's source per its descriptor kind: USB/
// builtin sources open by numbered device index, RTSP/ONVIF sources open
// the stream URL over the FFmpeg backend.
func openCapture(desc models.CameraDescriptor) (*gocv.VideoCapture, error) {
	switch desc.Kind {
	case models.SourceBuiltin, models.SourceUSB:
		idx, err := strconv.Atoi(desc.Locator)
		if err != nil {
			return nil, fmt.Errorf("%w: device locator %q is not numeric", ftserrors.ErrCameraOpen, desc.Locator)
		}
		cap, err := gocv.VideoCaptureDevice(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ftserrors.ErrCameraOpen, err)
		}
		return cap, nil
	case models.SourceRTSP, models.SourceONVIF:
		locator, err := withCredentials(desc.Locator, desc.Username, desc.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ftserrors.ErrCameraOpen, err)
		}
		cap, err := gocv.OpenVideoCaptureWithAPI(locator, gocv.VideoCaptureFFmpeg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ftserrors.ErrCameraOpen, err)
		}
		if !cap.IsOpened() {
			cap.Close()
			return nil, fmt.Errorf("%w: capture not opened for %s", ftserrors.ErrCameraOpen, desc.ID)
		}
		return cap, nil
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", ftserrors.ErrCameraOpen, desc.Kind)
	}
}

// withCredentials embeds username/password as URL userinfo when present,
// so RTSP/ONVIF sources that require auth connect without the caller
// having to bake credentials into the stored locator.
func withCredentials(locator, username, password string) (string, error) {
	if username == "" {
		return locator, nil
	}
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("parse locator: %w", err)
	}
	if password != "" {
		u.User = url.UserPassword(username, password)
	} else {
		u.User = url.User(username)
	}
	return u.String(), nil
}

// captureBackoff computes exponential growth clamped to [min,max] with
// symmetric jitter.
func captureBackoff(attempt int, min, max time.Duration, jitterPct int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt))) * time.Second
	if base < min {
		base = min
	}
	if base > max {
		base = max
	}
	jitter := time.Duration(float64(base) * (float64(jitterPct) / 100.0) * (rand.Float64()*2 - 1))
	return base + jitter
}

// captureLoop owns the camera source for the pipeline's lifetime,
// reconnecting with jittered backoff on open failure and emitting an
// error-frame placeholder at 1Hz while Degraded.
func (p *Pipeline) captureLoop() {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("capture loop panic recovered")
		}
	}()

	attempt := 0
	for {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		cap, err := openCapture(p.desc)
		if err != nil {
			p.enterDegraded(err)
			p.emitErrorFrame(err)
			delay := captureBackoff(attempt, p.cfg.ReconnectBackoffMin, p.cfg.ReconnectBackoffMax, p.cfg.ReconnectJitterPct)
			attempt++
			retryAt := time.After(delay)
			tick := time.NewTicker(time.Second)
		wait:
			for {
				select {
				case <-p.ctx.Done():
					tick.Stop()
					return
				case <-tick.C:
					p.emitErrorFrame(err)
				case <-retryAt:
					break wait
				}
			}
			tick.Stop()
			continue
		}

		attempt = 0
		atomic.StoreInt32(&p.captureFailRun, 0)
		p.readLoop(cap)
		cap.Close()

		select {
		case <-p.ctx.Done():
			return
		default:
		}
	}
}

// readLoop reads frames until the source errors repeatedly or the context
// is cancelled, then returns so captureLoop can reopen the source.
func (p *Pipeline) readLoop(cap *gocv.VideoCapture) {
	img := gocv.NewMat()
	defer img.Close()

	frameID := int64(0)

	for {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		ok := cap.Read(&img)
		if !ok || img.Empty() {
			run := atomic.AddInt32(&p.captureFailRun, 1)
			if int(run) >= p.cfg.CaptureFailConsecutive {
				err := fmt.Errorf("%w: %d consecutive read failures", ftserrors.ErrCameraReadTimeout, run)
				p.enterDegraded(err)
				p.emitErrorFrame(err)
				return
			}
			select {
			case <-p.ctx.Done():
				return
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}

		atomic.StoreInt32(&p.captureFailRun, 0)
		p.exitDegraded()
		frameID++
		p.fpsIn.Tick()

		width, height := p.outputSize()
		resized := gocv.NewMat()
		if img.Cols() != width || img.Rows() != height {
			gocv.Resize(img, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
		} else {
			resized = img.Clone()
		}
		data := resized.ToBytes()
		resized.Close()

		frame := &models.RawFrame{
			CameraID:  p.desc.ID,
			FrameID:   frameID,
			Data:      data,
			Width:     width,
			Height:    height,
			Timestamp: time.Now(),
		}
		p.sendRawFrame(frame)

		targetInterval := time.Second / time.Duration(max(p.cfg.CaptureFPS, 1))
		select {
		case <-p.ctx.Done():
			return
		case <-time.After(targetInterval):
		}
	}
}

// sendRawFrame implements the drop-oldest backpressure policy for the
// capacity-1 Capture->process channel: if the channel is
// full, the buffered frame is discarded in favor of the current one.
func (p *Pipeline) sendRawFrame(frame *models.RawFrame) {
	select {
	case p.rawFrames <- frame:
		return
	default:
	}
	select {
	case <-p.rawFrames:
	default:
	}
	select {
	case p.rawFrames <- frame:
	default:
	}
}

// emitErrorFrame synthesizes a placeholder frame describing a capture
// failure and hands it straight to the publisher, bypassing Detect/Track
// since there is no real image to process.
func (p *Pipeline) emitErrorFrame(err error) {
	width, height := p.outputSize()
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	defer mat.Close()
	mat.SetTo(gocv.NewScalar(32, 32, 96, 0))
	drawCenteredError(&mat, p.desc.ID, err.Error())

	frame := &models.ProcessedFrame{
		CameraID:  p.desc.ID,
		Width:     width,
		Height:    height,
		Timestamp: time.Now(),
		RawData:   mat.ToBytes(),
	}
	select {
	case p.toPublish <- frame:
	default:
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
