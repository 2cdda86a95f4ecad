package pipeline

import "github.com/kepler-fts/facetrackd/internal/models"

// recordLoop turns qualifying tripwire crossings into AttendanceEvents:
// only crossings carrying an identity at or above τ_identify reach the
// recorder.
func (p *Pipeline) recordLoop() {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("record loop panic recovered")
		}
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case frame, ok := <-p.toRecord:
			if !ok {
				return
			}
			for _, crossing := range frame.Crossings {
				if crossing.EmployeeID == "" || crossing.Score < p.cfg.IdentifyThreshold {
					continue
				}
				event := models.AttendanceEvent{
					EmployeeID: crossing.EmployeeID,
					CameraID:   frame.CameraID,
					TripwireID: crossing.TripwireID,
					Direction:  crossing.Direction,
					Timestamp:  crossing.Timestamp,
					Confidence: crossing.Score,
				}
				outcome := p.recorder.Record(event)
				p.log.Debug().
					Str("employee_id", event.EmployeeID).
					Str("tripwire_id", event.TripwireID).
					Str("outcome", string(outcome)).
					Msg("attendance crossing recorded")
			}
		}
	}
}
