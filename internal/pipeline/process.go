package pipeline

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/kepler-fts/facetrackd/internal/models"
)

// processLoop runs Detect -> Embed -> Identify -> Track -> TripwireEvaluate
// for each raw frame, draws overlays, and fans the result out to the
// Publish and Record stages.
func (p *Pipeline) processLoop() {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("process loop panic recovered")
		}
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case raw, ok := <-p.rawFrames:
			if !ok {
				return
			}
			processed := p.processFrame(p.ctx, raw)
			if processed == nil {
				continue
			}
			p.fpsOut.Tick()
			sendLatest(p.toPublish, processed)
			sendLatest(p.toRecord, processed)
		}
	}
}

func (p *Pipeline) processFrame(ctx context.Context, raw *models.RawFrame) *models.ProcessedFrame {
	start := time.Now()

	jpeg, err := encodeForInference(raw)
	if err != nil {
		p.log.Warn().Err(err).Msg("failed to encode frame for inference")
		p.noteMinuteError()
		return p.frameWithoutDetections(raw, start)
	}

	boxes, confs, err := p.registry.Detect(ctx, p.desc.ID, jpeg)
	if err != nil {
		p.log.Warn().Err(err).Msg("detector call failed, dropping frame")
		p.noteMinuteError()
		return nil
	}

	detections := make([]models.Detection, 0, len(boxes))
	for i, box := range boxes {
		if confs[i] < p.cfg.DetectThreshold {
			continue
		}
		detections = append(detections, models.Detection{Box: box, Confidence: confs[i]})
	}

	if len(detections) > 0 {
		aboveThreshold := make([]models.BoundingBox, len(detections))
		for i, d := range detections {
			aboveThreshold[i] = d.Box
		}
		embeddings, err := p.registry.Embed(ctx, jpeg, aboveThreshold)
		if err != nil {
			p.log.Warn().Err(err).Msg("embedder call failed, detections stay unidentified")
			p.noteMinuteError()
		} else {
			for i := range detections {
				if i >= len(embeddings) {
					break
				}
				detections[i].Embedding = embeddings[i]
				if match := p.bestMatch(embeddings[i]); match != nil {
					detections[i].EmployeeID = match.EmployeeID
					detections[i].Score = match.Score
				} else {
					detections[i].Unknown = true
				}
			}
		}
	}

	p.addDetections(int64(len(detections)))

	detections = p.updateTracks(raw.FrameID, detections)
	crossings := evaluateTripwires(raw.FrameID, p.tracks, p.desc.Tripwires)

	recognized := int64(0)
	for _, d := range detections {
		if !d.Unknown && d.EmployeeID != "" {
			recognized++
		}
	}
	p.addRecognitions(recognized)

	mat, err := gocv.NewMatFromBytes(raw.Height, raw.Width, gocv.MatTypeCV8UC3, raw.Data)
	if err != nil {
		p.log.Warn().Err(err).Msg("failed to build overlay mat")
		return p.buildProcessed(raw, detections, crossings, raw.Data, start)
	}
	defer mat.Close()
	drawOverlay(&mat, detections, p.desc.Tripwires)

	return p.buildProcessed(raw, detections, crossings, mat.ToBytes(), start)
}

func (p *Pipeline) frameWithoutDetections(raw *models.RawFrame, start time.Time) *models.ProcessedFrame {
	crossings := evaluateTripwires(raw.FrameID, p.tracks, p.desc.Tripwires)
	return p.buildProcessed(raw, nil, crossings, raw.Data, start)
}

func (p *Pipeline) buildProcessed(raw *models.RawFrame, detections []models.Detection, crossings []models.Crossing, rendered []byte, start time.Time) *models.ProcessedFrame {
	return &models.ProcessedFrame{
		CameraID:   raw.CameraID,
		FrameID:    raw.FrameID,
		Width:      raw.Width,
		Height:     raw.Height,
		Timestamp:  raw.Timestamp,
		RawData:    rendered,
		Detections: detections,
		Crossings:  crossings,
		FPS:        p.fpsIn.Value(),
		Latency:    time.Since(start),
	}
}

// bestMatch queries the shared IdentityIndex for the closest enrolled
// identity, returning nil when the top score misses τ_identify.
func (p *Pipeline) bestMatch(embedding []float32) *models.Match {
	matches, err := p.index.Query(embedding, 1)
	if err != nil || len(matches) == 0 {
		return nil
	}
	best := matches[0]
	if best.Score < p.cfg.IdentifyThreshold {
		return nil
	}
	return &best
}

func encodeForInference(raw *models.RawFrame) ([]byte, error) {
	mat, err := gocv.NewMatFromBytes(raw.Height, raw.Width, gocv.MatTypeCV8UC3, raw.Data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, 85})
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// sendLatest applies the drop-oldest policy to the capacity-4
// process->{Publish,Record} channels.
func sendLatest(ch chan *models.ProcessedFrame, frame *models.ProcessedFrame) {
	select {
	case ch <- frame:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- frame:
	default:
	}
}
