package pipeline

import (
	"testing"

	"github.com/kepler-fts/facetrackd/internal/models"
)

func horizontalWire(id string, dir models.TripwireDirection) models.Tripwire {
	return models.Tripwire{ID: id, Name: id, Orientation: models.OrientationHorizontal, Position: 0.5, Spacing: 0.1, Direction: dir}
}

func trackAt(id int64, centerY float32) *models.Track {
	return &models.Track{ID: id, LastBox: models.BoundingBox{X1: 0.4, Y1: centerY - 0.05, X2: 0.6, Y2: centerY + 0.05}, LastSide: make(map[string]float64)}
}

func TestTripwireNoCrossingOnFirstObservation(t *testing.T) {
	tracks := map[int64]*models.Track{1: trackAt(1, 0.2)}
	wires := []models.Tripwire{horizontalWire("w1", models.DirectionBoth)}
	crossings := evaluateTripwires(1, tracks, wires)
	if len(crossings) != 0 {
		t.Fatalf("expected no crossing on first observation, got %d", len(crossings))
	}
}

func TestTripwireEmitsOnSignFlipBeyondHysteresis(t *testing.T) {
	tracks := map[int64]*models.Track{1: trackAt(1, 0.2)}
	wires := []models.Tripwire{horizontalWire("w1", models.DirectionBoth)}

	evaluateTripwires(1, tracks, wires) // establish baseline side (-)
	tracks[1].LastBox.Y1 = 0.75
	tracks[1].LastBox.Y2 = 0.85
	crossings := evaluateTripwires(2, tracks, wires)
	if len(crossings) != 1 {
		t.Fatalf("expected one crossing, got %d", len(crossings))
	}
	if crossings[0].Direction != models.DirectionEnter {
		t.Fatalf("expected enter direction for -> + transition, got %s", crossings[0].Direction)
	}
}

func TestTripwireDoesNotRetriggerWithinBand(t *testing.T) {
	tracks := map[int64]*models.Track{1: trackAt(1, 0.2)}
	wires := []models.Tripwire{horizontalWire("w1", models.DirectionBoth)}

	evaluateTripwires(1, tracks, wires)
	tracks[1].LastBox.Y1, tracks[1].LastBox.Y2 = 0.75, 0.85
	evaluateTripwires(2, tracks, wires)

	// Small jitter still on the same (+) side, inside the band boundary.
	tracks[1].LastBox.Y1, tracks[1].LastBox.Y2 = 0.47, 0.57
	crossings := evaluateTripwires(3, tracks, wires)
	if len(crossings) != 0 {
		t.Fatalf("expected no repeat crossing for same-side jitter, got %d", len(crossings))
	}
}

func TestTripwireEnterPolicyIgnoresExitTransition(t *testing.T) {
	tracks := map[int64]*models.Track{1: trackAt(1, 0.8)}
	wires := []models.Tripwire{horizontalWire("w1", models.DirectionEnter)}

	evaluateTripwires(1, tracks, wires) // baseline side (+)
	tracks[1].LastBox.Y1, tracks[1].LastBox.Y2 = 0.15, 0.25
	crossings := evaluateTripwires(2, tracks, wires)
	if len(crossings) != 0 {
		t.Fatalf("expected enter-only wire to suppress a +->- transition, got %d", len(crossings))
	}
}

func TestTripwireBothPolicyReportsExitDirection(t *testing.T) {
	tracks := map[int64]*models.Track{1: trackAt(1, 0.8)}
	wires := []models.Tripwire{horizontalWire("w1", models.DirectionBoth)}

	evaluateTripwires(1, tracks, wires) // baseline side (+)
	tracks[1].LastBox.Y1, tracks[1].LastBox.Y2 = 0.15, 0.25
	crossings := evaluateTripwires(2, tracks, wires)
	if len(crossings) != 1 || crossings[0].Direction != models.DirectionExit {
		t.Fatalf("expected one exit crossing, got %+v", crossings)
	}
}
