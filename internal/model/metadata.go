package model

import "time"

// Metadata is the subset of Takeout sidecar data that gets written back
// into media files. Zero values mean "absent": a zero TakenAt means no
// timestamp was recorded, and HasGPS gates the coordinate fields because
// Takeout writes literal 0.0/0.0 coordinates for photos without location.
type Metadata struct {
	// TakenAt is the moment the photo or video was captured.
	TakenAt time.Time `json:"taken_at,omitempty"`

	// Latitude and Longitude are decimal degrees. Valid only if HasGPS.
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	// HasGPS is true when non-zero coordinates were present.
	HasGPS bool `json:"has_gps,omitempty"`

	// Altitude is meters above sea level (negative below). Valid only
	// if HasAltitude.
	Altitude    float64 `json:"altitude,omitempty"`
	HasAltitude bool    `json:"has_altitude,omitempty"`

	// Description is the user-entered caption, if any.
	Description string `json:"description,omitempty"`
}

// IsZero reports whether the metadata carries nothing worth writing.
func (m *Metadata) IsZero() bool {
	return m.TakenAt.IsZero() && !m.HasGPS && m.Description == ""
}
