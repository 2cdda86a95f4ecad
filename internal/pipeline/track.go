package pipeline

import "github.com/kepler-fts/facetrackd/internal/models"

// updateTracks performs IoU-based greedy matching of this frame's
// detections against live tracks, creates new
// tracks for unmatched detections, ages out tracks untouched for
// cfg.TrackExpireFrames frames, and applies sticky identity association:
// once a track carries an employee id above the identification threshold,
// a later unknown or low-score identification on the same track is
// ignored unless it clears the higher re-identification bar.
func (p *Pipeline) updateTracks(frameID int64, detections []models.Detection) []models.Detection {
	type candidate struct {
		detIdx, trackID int
		iou             float32
	}

	trackIDs := make([]int64, 0, len(p.tracks))
	for id := range p.tracks {
		trackIDs = append(trackIDs, id)
	}

	var candidates []candidate
	for di, det := range detections {
		for ti, tid := range trackIDs {
			iou := det.Box.IoU(p.tracks[tid].LastBox)
			if iou >= p.cfg.IoUThreshold {
				candidates = append(candidates, candidate{detIdx: di, trackID: ti, iou: iou})
			}
		}
	}
	// Greedy: highest IoU first, each detection and each track used once.
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].iou > candidates[i].iou {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}

	matchedDet := make(map[int]bool)
	matchedTrack := make(map[int]bool)
	detTrack := make(map[int]int64) // detection index -> track id

	for _, c := range candidates {
		if matchedDet[c.detIdx] || matchedTrack[c.trackID] {
			continue
		}
		matchedDet[c.detIdx] = true
		matchedTrack[c.trackID] = true
		detTrack[c.detIdx] = trackIDs[c.trackID]
	}

	for di, det := range detections {
		tid, ok := detTrack[di]
		if !ok {
			p.nextTrackID++
			tid = p.nextTrackID
			p.tracks[tid] = &models.Track{ID: tid, LastSide: make(map[string]float64)}
		}
		track := p.tracks[tid]
		track.LastBox = det.Box
		track.LastSeenAt = frameID
		track.FramesAlive++

		applySticky(track, det, p.cfg.IdentifyThreshold, p.cfg.IdentifyThreshold+p.cfg.ReidMargin)
		detections[di].TrackID = tid
		detections[di].EmployeeID = track.EmployeeID
		detections[di].Unknown = track.EmployeeID == ""
		detections[di].Score = track.BestScore
	}

	for tid, track := range p.tracks {
		if frameID-track.LastSeenAt > int64(p.cfg.TrackExpireFrames) {
			delete(p.tracks, tid)
		}
	}

	return detections
}

// applySticky implements the Track stage's sticky identity rule: a track
// once confidently identified keeps that identity through transient
// unknowns, only switching on a re-identification score that clears
// reidThreshold.
func applySticky(track *models.Track, det models.Detection, identifyThreshold, reidThreshold float32) {
	if det.Unknown || det.EmployeeID == "" {
		return
	}
	if track.EmployeeID == "" {
		if det.Score >= identifyThreshold {
			track.EmployeeID = det.EmployeeID
			track.BestScore = det.Score
		}
		return
	}
	if det.EmployeeID == track.EmployeeID {
		if det.Score > track.BestScore {
			track.BestScore = det.Score
		}
		return
	}
	if det.Score >= reidThreshold {
		track.EmployeeID = det.EmployeeID
		track.BestScore = det.Score
	}
}
