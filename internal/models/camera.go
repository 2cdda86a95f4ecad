package models

import "time"

// SourceKind tags the variant of a camera's physical source.
type SourceKind string

const (
	SourceBuiltin SourceKind = "builtin"
	SourceUSB     SourceKind = "usb"
	SourceRTSP    SourceKind = "rtsp"
	SourceONVIF   SourceKind = "onvif"
)

// CameraDescriptor is the admin/config-owned definition of a camera source.
// The capture stage dispatches on Kind at construction time, never per-frame.
type CameraDescriptor struct {
	ID       string     `json:"id"`
	Kind     SourceKind `json:"kind"`
	Locator  string     `json:"locator"` // device index (stringified) for Builtin/USB, URL for RTSP/ONVIF
	Username string     `json:"username,omitempty"`
	Password string     `json:"password,omitempty"`

	Width   int  `json:"width"`
	Height  int  `json:"height"`
	FPS     int  `json:"fps"`
	Enabled bool `json:"enabled"`

	Location  string     `json:"location,omitempty"`
	Tripwires []Tripwire `json:"tripwires,omitempty"`
}

// Equal reports whether two descriptors would produce an identical pipeline,
// used by FTSController.ApplyConfig to decide which pipelines to leave alone.
func (d CameraDescriptor) Equal(o CameraDescriptor) bool {
	if d.ID != o.ID || d.Kind != o.Kind || d.Locator != o.Locator ||
		d.Username != o.Username || d.Password != o.Password ||
		d.Width != o.Width || d.Height != o.Height || d.FPS != o.FPS ||
		d.Enabled != o.Enabled {
		return false
	}
	if len(d.Tripwires) != len(o.Tripwires) {
		return false
	}
	for i := range d.Tripwires {
		if d.Tripwires[i] != o.Tripwires[i] {
			return false
		}
	}
	return true
}

// DiscoveredCamera is a transient result of a discovery run; it owns no
// persistent state.
type DiscoveredCamera struct {
	ID           string     `json:"id"`
	Kind         SourceKind `json:"kind"`
	Locator      string     `json:"locator"`
	Reachable    bool       `json:"reachable"`
	Width        int        `json:"width,omitempty"`
	Height       int        `json:"height,omitempty"`
	FPS          float64    `json:"fps,omitempty"`
	Model        string     `json:"model,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty"` // base64 JPEG preview, for an admin UI picking among candidates
	DiscoveredAt time.Time  `json:"discovered_at"`
}

// TripwireDirection controls which side-transitions a Tripwire emits on.
type TripwireDirection string

const (
	DirectionEnter      TripwireDirection = "enter"
	DirectionExit       TripwireDirection = "exit"
	DirectionBoth       TripwireDirection = "both"
	DirectionMonitoring TripwireDirection = "monitoring" // alias for Both
)

// Normalize resolves the "monitoring" alias to "both".
func (d TripwireDirection) Normalize() TripwireDirection {
	if d == DirectionMonitoring {
		return DirectionBoth
	}
	return d
}

type TripwireOrientation string

const (
	OrientationHorizontal TripwireOrientation = "horizontal"
	OrientationVertical   TripwireOrientation = "vertical"
)

// Tripwire is a virtual line on the image plane; crossing it in the
// configured direction emits an AttendanceEvent candidate.
type Tripwire struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Orientation TripwireOrientation `json:"orientation"`
	Position    float64             `json:"position"` // p in [0,1]
	Spacing     float64             `json:"spacing"`  // hysteresis half-width is Spacing/2
	Direction   TripwireDirection   `json:"direction"`
}
