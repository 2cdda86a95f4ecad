package models

import "time"

// RawFrame is a single captured image handed from Capture to Detect.
type RawFrame struct {
	CameraID  string
	FrameID   int64
	Data      []byte // BGR pixel data, as produced by gocv.Mat.ToBytes
	Width     int
	Height    int
	Timestamp time.Time
}

// Detection is one face detector output, enriched through Embed/Identify.
type Detection struct {
	Box        BoundingBox
	Confidence float32

	Embedding []float32 // set by Embed, dimension D

	EmployeeID string  // set by Identify when matched
	Score      float32 // identification score, 0 if unknown
	Unknown    bool

	TrackID int64 // set by Track once associated
}

type BoundingBox struct {
	X1, Y1, X2, Y2 float32 // normalized 0..1
}

func (b BoundingBox) CenterX() float32 { return (b.X1 + b.X2) / 2 }
func (b BoundingBox) CenterY() float32 { return (b.Y1 + b.Y2) / 2 }

// IoU computes intersection-over-union against another box, both normalized.
func (b BoundingBox) IoU(o BoundingBox) float32 {
	ix1, iy1 := max32(b.X1, o.X1), max32(b.Y1, o.Y1)
	ix2, iy2 := min32(b.X2, o.X2), min32(b.Y2, o.Y2)
	iw, ih := ix2-ix1, iy2-iy1
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	areaB := (b.X2 - b.X1) * (b.Y2 - b.Y1)
	areaO := (o.X2 - o.X1) * (o.Y2 - o.Y1)
	union := areaB + areaO - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// ProcessedFrame is a frame after Detect/Embed/Identify/Track/TripwireEvaluate,
// ready for Publish (with overlays) and Record.
type ProcessedFrame struct {
	CameraID   string
	FrameID    int64
	Width      int
	Height     int
	Timestamp  time.Time
	RawData    []byte // BGR, no overlay, for MJPEG re-encode on demand
	Detections []Detection
	Crossings  []Crossing
	FPS        float64
	Latency    time.Duration
}

// Crossing is one tripwire-crossing event detected this frame. EmployeeID
// and Score are carried from the owning track at evaluation time so Record
// can apply the identification threshold without touching track state.
type Crossing struct {
	TripwireID string
	TrackID    int64
	Direction  TripwireDirection
	FrameID    int64
	Timestamp  time.Time
	EmployeeID string
	Score      float32
}
