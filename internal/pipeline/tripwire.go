package pipeline

import (
	"time"

	"github.com/kepler-fts/facetrackd/internal/models"
)

// evaluateTripwires computes, for each live track and each configured
// tripwire, the hysteresis-banded side transition, emitting a Crossing
// whenever the side flips across the band and the tripwire's direction
// policy admits that transition.
func evaluateTripwires(frameID int64, tracks map[int64]*models.Track, tripwires []models.Tripwire) []models.Crossing {
	var crossings []models.Crossing
	now := time.Now()

	for _, track := range tracks {
		if track.LastSide == nil {
			track.LastSide = make(map[string]float64)
		}
		for _, tw := range tripwires {
			side := computeSide(track.LastBox, tw)
			prev, seen := track.LastSide[tw.ID]
			half := tw.Spacing / 2

			switch {
			case !seen:
				track.LastSide[tw.ID] = side
			case side > half && prev < -half:
				if dir, ok := resolveDirection(tw.Direction, models.DirectionEnter); ok {
					crossings = append(crossings, models.Crossing{
						TripwireID: tw.ID, TrackID: track.ID, Direction: dir,
						FrameID: frameID, Timestamp: now,
						EmployeeID: track.EmployeeID, Score: track.BestScore,
					})
				}
				track.LastSide[tw.ID] = side
			case side < -half && prev > half:
				if dir, ok := resolveDirection(tw.Direction, models.DirectionExit); ok {
					crossings = append(crossings, models.Crossing{
						TripwireID: tw.ID, TrackID: track.ID, Direction: dir,
						FrameID: frameID, Timestamp: now,
						EmployeeID: track.EmployeeID, Score: track.BestScore,
					})
				}
				track.LastSide[tw.ID] = side
			default:
				// Inside the hysteresis band or no sign flip; hold the
				// last committed side so noise at the boundary doesn't
				// re-trigger.
				if side > half || side < -half {
					track.LastSide[tw.ID] = side
				}
			}
		}
	}
	return crossings
}

// computeSide returns the signed offset center/dim - position along the
// tripwire's orientation axis; its sign is the side, its magnitude is
// compared against the hysteresis half-width.
func computeSide(box models.BoundingBox, tw models.Tripwire) float64 {
	if tw.Orientation == models.OrientationHorizontal {
		return float64(box.CenterY()) - tw.Position
	}
	return float64(box.CenterX()) - tw.Position
}

// resolveDirection applies the tripwire's configured policy to an
// observed sign transition: an "enter" wire only emits on -> + transitions
// (observed == DirectionEnter), "exit" only on + -> -, "both"/"monitoring"
// emits whichever was observed.
func resolveDirection(policy, observed models.TripwireDirection) (models.TripwireDirection, bool) {
	switch policy.Normalize() {
	case models.DirectionEnter:
		if observed == models.DirectionEnter {
			return observed, true
		}
		return "", false
	case models.DirectionExit:
		if observed == models.DirectionExit {
			return observed, true
		}
		return "", false
	case models.DirectionBoth:
		return observed, true
	default:
		return "", false
	}
}
