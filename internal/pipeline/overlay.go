package pipeline

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/kepler-fts/facetrackd/internal/models"
)

var (
	colorKnown   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	colorUnknown = color.RGBA{R: 0, G: 165, B: 255, A: 255}
	colorWire    = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	colorText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// drawOverlay paints bounding boxes, identity labels and tripwire lines
// onto mat in place, using a corner-bracket box style rather than full
// rectangles so overlapping boxes stay legible.
func drawOverlay(mat *gocv.Mat, detections []models.Detection, tripwires []models.Tripwire) {
	width, height := mat.Cols(), mat.Rows()

	for _, tw := range tripwires {
		drawTripwire(mat, tw, width, height)
	}

	for _, det := range detections {
		boxColor := colorUnknown
		label := "unknown"
		if !det.Unknown && det.EmployeeID != "" {
			boxColor = colorKnown
			label = det.EmployeeID
		}

		x1 := clamp(int(det.Box.X1*float32(width)), 0, width-2)
		y1 := clamp(int(det.Box.Y1*float32(height)), 0, height-2)
		x2 := clamp(int(det.Box.X2*float32(width)), x1+1, width-1)
		y2 := clamp(int(det.Box.Y2*float32(height)), y1+1, height-1)
		rect := image.Rect(x1, y1, x2, y2)
		gocv.Rectangle(mat, rect, boxColor, 2)

		corner, thickness := 12, 2
		gocv.Line(mat, image.Pt(x1, y1), image.Pt(x1+corner, y1), boxColor, thickness)
		gocv.Line(mat, image.Pt(x1, y1), image.Pt(x1, y1+corner), boxColor, thickness)
		gocv.Line(mat, image.Pt(x2, y2), image.Pt(x2-corner, y2), boxColor, thickness)
		gocv.Line(mat, image.Pt(x2, y2), image.Pt(x2, y2-corner), boxColor, thickness)

		text := fmt.Sprintf("%s #%d", label, det.TrackID)
		gocv.PutText(mat, text, image.Pt(x1, y1-6), gocv.FontHersheySimplex, 0.5, colorText, 1)
	}
}

func drawTripwire(mat *gocv.Mat, tw models.Tripwire, width, height int) {
	if tw.Orientation == models.OrientationHorizontal {
		y := clamp(int(tw.Position*float64(height)), 0, height-1)
		gocv.Line(mat, image.Pt(0, y), image.Pt(width, y), colorWire, 2)
	} else {
		x := clamp(int(tw.Position*float64(width)), 0, width-1)
		gocv.Line(mat, image.Pt(x, 0), image.Pt(x, height), colorWire, 2)
	}
	gocv.PutText(mat, tw.Name, image.Pt(8, 20), gocv.FontHersheySimplex, 0.6, colorWire, 2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// drawCenteredError renders a one-line failure message over a solid mat,
// used by the capture stage's synthesized error frame.
func drawCenteredError(mat *gocv.Mat, cameraID, message string) {
	gocv.PutText(mat, fmt.Sprintf("camera %s: capture error", cameraID), image.Pt(16, mat.Rows()/2-12),
		gocv.FontHersheySimplex, 0.6, colorText, 2)
	gocv.PutText(mat, message, image.Pt(16, mat.Rows()/2+14), gocv.FontHersheySimplex, 0.5, colorText, 1)
}
