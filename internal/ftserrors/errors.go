// Package ftserrors declares the sentinel errors named by the Face Tracking
// Service components, so callers can branch with errors.Is/errors.As instead
// of matching strings.
package ftserrors

import (
	"errors"
	"fmt"
)

var (
	// Configuration
	ErrConfigInvalid = errors.New("config: invalid field")

	// Resource
	ErrCameraOpen        = errors.New("camera: failed to open source")
	ErrCameraReadTimeout = errors.New("camera: read timed out")
	ErrModelLoad         = errors.New("model: failed to load")

	// Input
	ErrNoFace            = errors.New("enroll: no face detected")
	ErrMultipleFaces     = errors.New("enroll: more than one face detected")
	ErrDimensionMismatch = errors.New("identity: embedding dimension mismatch")

	// Duplication
	ErrDuplicate = errors.New("identity: employee id already enrolled")

	// Capacity
	ErrStoreUnavailable = errors.New("attendance: durable store unavailable")
	ErrSpillFull         = errors.New("attendance: spill file unavailable")

	// Discovery
	ErrDiscoveryTimeout = errors.New("discovery: deadline exceeded")

	// Lifecycle
	ErrNotRunning     = errors.New("controller: not running")
	ErrAlreadyRunning = errors.New("controller: already running")
)

// InvalidField wraps ErrConfigInvalid naming the offending field.
func InvalidField(field string) error {
	return fmt.Errorf("%w: %s", ErrConfigInvalid, field)
}
