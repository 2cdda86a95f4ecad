// Package attendance implements the AttendanceRecorder: a debouncing,
// durable sink for AttendanceEvents. Debounce bookkeeping uses an
// RWMutex-guarded cooldown map (check/update under lock); persistence goes
// through a pluggable Store and spills to a local file when the store is
// down.
package attendance

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/logging"
	"github.com/kepler-fts/facetrackd/internal/models"
)

// Store is the narrow durable-persistence adapter the core depends on.
// Any store meeting this contract suffices; this repo ships a gorm/sqlite
// implementation in attendance/store.
type Store interface {
	Append(event models.AttendanceEvent) error
	ListByEmployee(employeeID string, from, to time.Time) ([]models.AttendanceEvent, error)
	ListByRange(from, to time.Time) ([]models.AttendanceEvent, error)
}

// Publisher is the narrow notification hook; satisfied by
// *messaging.Service.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Recorder is the AttendanceRecorder component.
type Recorder struct {
	log zerolog.Logger

	window     time.Duration
	retryCeiling time.Duration

	store     Store
	spill     *Spill
	publisher Publisher
	subject   string

	mu       sync.RWMutex
	lastSent map[string]time.Time // keyed by (employee_id, direction)

	healthMu  sync.RWMutex
	lastFatal error // set when a spill append fails; ErrSpillFull is fatal to the recorder
}

func cooldownKey(employeeID string, direction models.TripwireDirection) string {
	return fmt.Sprintf("%s|%s", employeeID, direction)
}

// New builds a Recorder. publisher may be nil, in which case accepted
// events are simply not announced over NATS.
func New(cfg *config.Config, store Store, publisher Publisher) (*Recorder, error) {
	spill, err := NewSpill(cfg.AttendanceSpillPath)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		log:          logging.NewComponentLogger("attendance"),
		window:       cfg.DebounceWindow,
		retryCeiling: cfg.StoreRetryCeiling,
		store:        store,
		spill:        spill,
		publisher:    publisher,
		subject:      "attendance.events",
		lastSent:     make(map[string]time.Time),
	}, nil
}

// Record applies the debounce rule then persists accepted events, retrying
// the store with exponential backoff up to retryCeiling before spilling to
// the append-only file.
func (r *Recorder) Record(event models.AttendanceEvent) models.RecordOutcome {
	key := cooldownKey(event.EmployeeID, event.Direction)

	r.mu.Lock()
	last, seen := r.lastSent[key]
	if seen && time.Since(last) < r.window {
		r.mu.Unlock()
		return models.RecordDebounced
	}
	r.lastSent[key] = event.Timestamp
	r.mu.Unlock()

	if err := r.persistWithRetry(event); err != nil {
		r.log.Error().Err(err).Str("employee_id", event.EmployeeID).Msg("attendance store unavailable, spilling")
		if spillErr := r.spill.Append(event); spillErr != nil {
			wrapped := fmt.Errorf("%w: %v", ftserrors.ErrSpillFull, spillErr)
			r.log.Error().Err(wrapped).Msg("spill file unavailable")
			r.setFatal(wrapped)
			return models.RecordError
		}
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(r.subject, event); err != nil {
			r.log.Warn().Err(err).Msg("failed to publish attendance event notification")
		}
	}

	return models.RecordAccepted
}

func (r *Recorder) persistWithRetry(event models.AttendanceEvent) error {
	backoff := 100 * time.Millisecond
	deadline := time.Now().Add(r.retryCeiling)
	var lastErr error
	for time.Now().Before(deadline) {
		if err := r.store.Append(event); err != nil {
			lastErr = err
			time.Sleep(backoff)
			backoff *= 2
			if backoff > r.retryCeiling {
				backoff = r.retryCeiling
			}
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = ftserrors.ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %v", ftserrors.ErrStoreUnavailable, lastErr)
}

// RecentFor returns accepted events for employeeID within the last window.
func (r *Recorder) RecentFor(employeeID string, window time.Duration) ([]models.AttendanceEvent, error) {
	now := time.Now()
	return r.store.ListByEmployee(employeeID, now.Add(-window), now)
}

func (r *Recorder) setFatal(err error) {
	r.healthMu.Lock()
	r.lastFatal = err
	r.healthMu.Unlock()
}

// Health reports the recorder's fatal error, if any. A non-nil result
// (always wrapping ErrSpillFull today) means attendance events are being
// silently dropped and the recorder needs operator attention.
func (r *Recorder) Health() error {
	r.healthMu.RLock()
	defer r.healthMu.RUnlock()
	return r.lastFatal
}
