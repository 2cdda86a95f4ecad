package discovery

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/kepler-fts/facetrackd/internal/models"
)

// localDevices probes built-in/USB device indices 0..max-1 by attempting to
// open and immediately close each one.
func localDevices(max int) []models.DiscoveredCamera {
	var found []models.DiscoveredCamera
	for idx := 0; idx < max; idx++ {
		cap, err := gocv.VideoCaptureDevice(idx)
		if err != nil {
			continue
		}
		opened := cap.IsOpened()
		width := int(cap.Get(gocv.VideoCaptureFrameWidth))
		height := int(cap.Get(gocv.VideoCaptureFrameHeight))
		cap.Close()
		if !opened {
			continue
		}
		kind := models.SourceUSB
		if idx == 0 {
			kind = models.SourceBuiltin
		}
		found = append(found, models.DiscoveredCamera{
			ID:        fmt.Sprintf("local-%d", idx),
			Kind:      kind,
			Locator:   fmt.Sprintf("%d", idx),
			Reachable: true,
			Width:     width,
			Height:    height,
		})
	}
	return found
}
