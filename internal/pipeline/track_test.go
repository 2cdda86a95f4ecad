package pipeline

import (
	"testing"

	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/models"
)

func newTestPipeline() *Pipeline {
	return &Pipeline{
		cfg: &config.Config{
			IoUThreshold:      0.3,
			TrackExpireFrames: 3,
			IdentifyThreshold: 0.6,
			ReidMargin:        0.15,
		},
		tracks: make(map[int64]*models.Track),
	}
}

func box(x1, y1, x2, y2 float32) models.BoundingBox {
	return models.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func TestUpdateTracksAssignsNewTrackID(t *testing.T) {
	p := newTestPipeline()
	out := p.updateTracks(1, []models.Detection{{Box: box(0.1, 0.1, 0.3, 0.3)}})
	if out[0].TrackID != 1 {
		t.Fatalf("expected track id 1, got %d", out[0].TrackID)
	}
	if len(p.tracks) != 1 {
		t.Fatalf("expected one live track, got %d", len(p.tracks))
	}
}

func TestUpdateTracksMatchesByIoU(t *testing.T) {
	p := newTestPipeline()
	first := p.updateTracks(1, []models.Detection{{Box: box(0.1, 0.1, 0.3, 0.3)}})
	id := first[0].TrackID

	// Slightly shifted box on the next frame, high IoU.
	second := p.updateTracks(2, []models.Detection{{Box: box(0.11, 0.1, 0.31, 0.3)}})
	if second[0].TrackID != id {
		t.Fatalf("expected same track id %d across frames, got %d", id, second[0].TrackID)
	}
	if len(p.tracks) != 1 {
		t.Fatalf("expected track reused, not duplicated, got %d tracks", len(p.tracks))
	}
}

func TestUpdateTracksCreatesSeparateTrackWhenNoOverlap(t *testing.T) {
	p := newTestPipeline()
	p.updateTracks(1, []models.Detection{{Box: box(0.0, 0.0, 0.1, 0.1)}})
	out := p.updateTracks(2, []models.Detection{{Box: box(0.8, 0.8, 0.95, 0.95)}})
	if out[0].TrackID == 1 {
		t.Fatalf("expected a distinct track id for non-overlapping box")
	}
}

func TestUpdateTracksExpiresStaleTracks(t *testing.T) {
	p := newTestPipeline()
	p.updateTracks(1, []models.Detection{{Box: box(0.1, 0.1, 0.3, 0.3)}})
	if len(p.tracks) != 1 {
		t.Fatalf("expected track created")
	}
	// No detections for several frames beyond TrackExpireFrames.
	p.updateTracks(10, nil)
	if len(p.tracks) != 0 {
		t.Fatalf("expected stale track expired, got %d remaining", len(p.tracks))
	}
}

func TestStickyIdentitySurvivesTransientUnknown(t *testing.T) {
	p := newTestPipeline()
	out := p.updateTracks(1, []models.Detection{{
		Box: box(0.1, 0.1, 0.3, 0.3), EmployeeID: "E001", Score: 0.8,
	}})
	id := out[0].TrackID

	// Same track, this frame's identification came back unknown.
	out2 := p.updateTracks(2, []models.Detection{{
		Box: box(0.1, 0.1, 0.3, 0.3), Unknown: true,
	}})
	if out2[0].TrackID != id {
		t.Fatalf("expected same track")
	}
	if out2[0].EmployeeID != "E001" {
		t.Fatalf("expected sticky identity to survive transient unknown, got %q", out2[0].EmployeeID)
	}
}

func TestStickyIdentitySwitchesOnlyAboveReidMargin(t *testing.T) {
	p := newTestPipeline()
	p.updateTracks(1, []models.Detection{{
		Box: box(0.1, 0.1, 0.3, 0.3), EmployeeID: "E001", Score: 0.8,
	}})

	// A different identity at a score below the re-id bar should not steal the track.
	out := p.updateTracks(2, []models.Detection{{
		Box: box(0.1, 0.1, 0.3, 0.3), EmployeeID: "E002", Score: 0.7,
	}})
	if out[0].EmployeeID != "E001" {
		t.Fatalf("expected identity to remain E001 below reid margin, got %q", out[0].EmployeeID)
	}

	// A score clearing identify+reidMargin (0.75) should switch it.
	out2 := p.updateTracks(3, []models.Detection{{
		Box: box(0.1, 0.1, 0.3, 0.3), EmployeeID: "E002", Score: 0.9,
	}})
	if out2[0].EmployeeID != "E002" {
		t.Fatalf("expected identity to switch to E002 above reid margin, got %q", out2[0].EmployeeID)
	}
}
