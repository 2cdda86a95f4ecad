package attendance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kepler-fts/facetrackd/internal/models"
)

// Spill is the append-only newline-delimited fallback sink used when the
// durable Store is unavailable.
type Spill struct {
	mu   sync.Mutex
	path string
}

type spillRecord struct {
	Timestamp  string  `json:"timestamp"`
	EmployeeID string  `json:"employee_id"`
	CameraID   string  `json:"camera_id"`
	TripwireID string  `json:"tripwire_id"`
	Direction  string  `json:"direction"`
	Confidence float32 `json:"confidence"`
}

func NewSpill(path string) (*Spill, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("attendance: create spill dir: %w", err)
		}
	}
	return &Spill{path: path}, nil
}

func (s *Spill) Append(event models.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	rec := spillRecord{
		Timestamp:  event.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		EmployeeID: event.EmployeeID,
		CameraID:   event.CameraID,
		TripwireID: event.TripwireID,
		Direction:  string(event.Direction),
		Confidence: event.Confidence,
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return w.Flush()
}
