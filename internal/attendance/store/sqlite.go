// Package store provides a concrete AttendanceStore adapter so the Face
// Tracking Service core can run standalone, without the outer platform's
// relational database plugged in. Grounded on the gorm+postgres persistence
// pattern from the command-center-vms example repo, swapped to a local
// sqlite file since the core assumes no network DB dependency.
package store

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kepler-fts/facetrackd/internal/models"
)

// attendanceRow is the gorm model backing the attendance_events table.
type attendanceRow struct {
	ID         uint      `gorm:"primarykey"`
	EmployeeID string    `gorm:"index"`
	CameraID   string    `gorm:"index"`
	TripwireID string
	Direction  string
	Timestamp  time.Time `gorm:"index"`
	Confidence float32
}

func (attendanceRow) TableName() string { return "attendance_events" }

// SQLite is an attendance.Store implementation backed by a local sqlite
// database file.
type SQLite struct {
	db *gorm.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&attendanceRow{}); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(event models.AttendanceEvent) error {
	row := attendanceRow{
		EmployeeID: event.EmployeeID,
		CameraID:   event.CameraID,
		TripwireID: event.TripwireID,
		Direction:  string(event.Direction),
		Timestamp:  event.Timestamp,
		Confidence: event.Confidence,
	}
	return s.db.Create(&row).Error
}

func (s *SQLite) ListByEmployee(employeeID string, from, to time.Time) ([]models.AttendanceEvent, error) {
	var rows []attendanceRow
	err := s.db.Where("employee_id = ? AND timestamp BETWEEN ? AND ?", employeeID, from, to).
		Order("timestamp asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEvents(rows), nil
}

func (s *SQLite) ListByRange(from, to time.Time) ([]models.AttendanceEvent, error) {
	var rows []attendanceRow
	err := s.db.Where("timestamp BETWEEN ? AND ?", from, to).Order("timestamp asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEvents(rows), nil
}

func toEvents(rows []attendanceRow) []models.AttendanceEvent {
	out := make([]models.AttendanceEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AttendanceEvent{
			EmployeeID: r.EmployeeID,
			CameraID:   r.CameraID,
			TripwireID: r.TripwireID,
			Direction:  models.TripwireDirection(r.Direction),
			Timestamp:  r.Timestamp,
			Confidence: r.Confidence,
		})
	}
	return out
}
