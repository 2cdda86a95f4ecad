package models

import "time"

// Identity is one enrolled employee in the IdentityIndex.
type Identity struct {
	EmployeeID  string    `json:"employee_id"`
	DisplayName string    `json:"display_name"`
	Embedding   []float32 `json:"-"` // unit-norm, dimension D
	EnrolledAt  time.Time `json:"enrolled_at"`
}

// Match is one IdentityIndex.Query result.
type Match struct {
	EmployeeID string
	Score      float32
}

// Track is an identity-agnostic continuity record for a face across frames
// within one CameraPipeline, later associated (stickily) with an Identity.
type Track struct {
	ID          int64
	LastBox     BoundingBox
	VelocityX   float32
	VelocityY   float32
	LastSeenAt  int64 // frame id
	FramesAlive int

	EmployeeID string // "" until a confident identification sticks
	BestScore  float32

	// LastSide is the last computed tripwire side, keyed by tripwire id,
	// used by TripwireEvaluate for hysteresis-gated sign-change detection.
	LastSide map[string]float64
}
