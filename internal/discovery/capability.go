package discovery

import (
	"encoding/base64"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/models"
)

// CapabilityProbeResult reports whether a located source actually opens
// and yields a stable frame, plus a JPEG thumbnail on success.
type CapabilityProbeResult struct {
	Reachable bool
	Width     int
	Height    int
	FPS       float64
	Thumbnail []byte
	Err       error
}

// ProbeCapability opens locator with the RTSP/ONVIF backend and attempts to
// read a handful of frames within timeout, capturing resolution, FPS and a
// thumbnail from the first decodable frame.
func ProbeCapability(locator string, timeout time.Duration) CapabilityProbeResult {
	cap, err := gocv.OpenVideoCaptureWithAPI(locator, gocv.VideoCaptureFFmpeg)
	if err != nil {
		return CapabilityProbeResult{Err: fmt.Errorf("%w: %v", ftserrors.ErrCameraOpen, err)}
	}
	defer cap.Close()

	if !cap.IsOpened() {
		return CapabilityProbeResult{Err: fmt.Errorf("%w: capture not opened", ftserrors.ErrCameraOpen)}
	}

	frameCh := make(chan bool, 1)
	img := gocv.NewMat()
	defer img.Close()

	go func() {
		for i := 0; i < 5; i++ {
			if cap.Read(&img) && !img.Empty() {
				frameCh <- true
				return
			}
			time.Sleep(200 * time.Millisecond)
		}
		frameCh <- false
	}()

	select {
	case ok := <-frameCh:
		if !ok {
			return CapabilityProbeResult{Err: fmt.Errorf("%w: no stable frame within %d attempts", ftserrors.ErrCameraReadTimeout, 5)}
		}
	case <-time.After(timeout):
		return CapabilityProbeResult{Err: fmt.Errorf("%w: timed out after %s", ftserrors.ErrCameraReadTimeout, timeout)}
	}

	result := CapabilityProbeResult{
		Reachable: true,
		Width:     img.Cols(),
		Height:    img.Rows(),
		FPS:       cap.Get(gocv.VideoCaptureFPS),
	}
	if buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, 80}); err == nil {
		thumb := make([]byte, buf.Len())
		copy(thumb, buf.GetBytes())
		buf.Close()
		result.Thumbnail = thumb
	}
	return result
}

// Enrich augments a DiscoveredCamera with capability-probe results in
// place, used right before reporting discovery output to the admin layer.
func Enrich(cam *models.DiscoveredCamera, timeout time.Duration) {
	if cam.Kind != models.SourceRTSP && cam.Kind != models.SourceONVIF {
		return
	}
	res := ProbeCapability(cam.Locator, timeout)
	cam.Reachable = res.Reachable
	if res.Reachable {
		cam.Width = res.Width
		cam.Height = res.Height
		cam.FPS = res.FPS
		if len(res.Thumbnail) > 0 {
			cam.Thumbnail = base64.StdEncoding.EncodeToString(res.Thumbnail)
		}
	}
}
