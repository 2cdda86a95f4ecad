package attendance

import (
	"sync"
	"testing"
	"time"

	"github.com/kepler-fts/facetrackd/internal/config"
	"github.com/kepler-fts/facetrackd/internal/models"
)

type fakeStore struct {
	mu     sync.Mutex
	events []models.AttendanceEvent
}

func (f *fakeStore) Append(e models.AttendanceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeStore) ListByEmployee(employeeID string, from, to time.Time) ([]models.AttendanceEvent, error) {
	return nil, nil
}

func (f *fakeStore) ListByRange(from, to time.Time) ([]models.AttendanceEvent, error) {
	return nil, nil
}

func newTestRecorder(t *testing.T, window time.Duration) (*Recorder, *fakeStore) {
	t.Helper()
	cfg := &config.Config{
		DebounceWindow:      window,
		AttendanceSpillPath: t.TempDir() + "/spill.ndjson",
		StoreRetryCeiling:   time.Second,
	}
	fs := &fakeStore{}
	r, err := New(cfg, fs, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, fs
}

func TestRecordDebouncesWithinWindow(t *testing.T) {
	r, fs := newTestRecorder(t, 300*time.Second)

	e1 := models.AttendanceEvent{EmployeeID: "E001", Direction: models.DirectionEnter, Timestamp: time.Now()}
	if outcome := r.Record(e1); outcome != models.RecordAccepted {
		t.Fatalf("expected accepted, got %s", outcome)
	}

	e2 := e1
	e2.Timestamp = e1.Timestamp.Add(10 * time.Second)
	if outcome := r.Record(e2); outcome != models.RecordDebounced {
		t.Fatalf("expected debounced, got %s", outcome)
	}

	if len(fs.events) != 1 {
		t.Fatalf("expected exactly one persisted event, got %d", len(fs.events))
	}
}

func TestRecordAcceptsAfterWindowExpires(t *testing.T) {
	r, fs := newTestRecorder(t, 50*time.Millisecond)

	e1 := models.AttendanceEvent{EmployeeID: "E001", Direction: models.DirectionEnter, Timestamp: time.Now()}
	r.Record(e1)

	time.Sleep(60 * time.Millisecond)

	e2 := e1
	e2.Timestamp = time.Now()
	if outcome := r.Record(e2); outcome != models.RecordAccepted {
		t.Fatalf("expected accepted after window expiry, got %s", outcome)
	}
	if len(fs.events) != 2 {
		t.Fatalf("expected two persisted events, got %d", len(fs.events))
	}
}

func TestRecordDistinguishesDirection(t *testing.T) {
	r, fs := newTestRecorder(t, 300*time.Second)

	enter := models.AttendanceEvent{EmployeeID: "E001", Direction: models.DirectionEnter, Timestamp: time.Now()}
	exit := models.AttendanceEvent{EmployeeID: "E001", Direction: models.DirectionExit, Timestamp: time.Now()}

	if outcome := r.Record(enter); outcome != models.RecordAccepted {
		t.Fatalf("expected accepted for enter, got %s", outcome)
	}
	if outcome := r.Record(exit); outcome != models.RecordAccepted {
		t.Fatalf("expected accepted for exit (different direction), got %s", outcome)
	}
	if len(fs.events) != 2 {
		t.Fatalf("expected two persisted events, got %d", len(fs.events))
	}
}
