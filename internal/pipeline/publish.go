package pipeline

// publishLoop hands each processed frame to the per-camera MJPEGPublisher.
func (p *Pipeline) publishLoop() {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("publish loop panic recovered")
		}
	}()

	for {
		select {
		case <-p.ctx.Done():
			return
		case frame, ok := <-p.toPublish:
			if !ok {
				return
			}
			if err := p.publisher.PublishFrame(frame); err != nil {
				p.log.Warn().Err(err).Msg("failed to publish frame")
			}
		}
	}
}
