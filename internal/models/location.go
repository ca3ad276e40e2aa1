package models

import "time"

// Coordinate represents a WGS84 latitude/longitude pair in degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Location represents a smoothed positional measurement produced by the
// fusion engine. Altitude, vertical accuracy, course and speed are optional:
// a nil pointer means the underlying sensor stream did not provide the value,
// which is distinct from a measured zero.
type Location struct {
	Coordinate Coordinate `json:"coordinate"`
	Timestamp  time.Time  `json:"timestamp"`

	// HorizontalAccuracy is the 1-sigma horizontal error radius in meters.
	HorizontalAccuracy float64 `json:"horizontalAccuracy"`

	Altitude         *float64 `json:"altitude,omitempty"`         // Meters above sea level
	VerticalAccuracy *float64 `json:"verticalAccuracy,omitempty"` // Meters
	Course           *float64 `json:"course,omitempty"`           // Degrees, 0 = North
	Speed            *float64 `json:"speed,omitempty"`            // Meters per second
}

// HasAltitude reports whether the location carries a usable altitude
func (l *Location) HasAltitude() bool {
	return l != nil && l.Altitude != nil
}

// Fix represents a single raw or filtered positional measurement collected
// during a sample window
type Fix struct {
	Coordinate         Coordinate `json:"coordinate"`
	HorizontalAccuracy float64    `json:"horizontalAccuracy"`
	Timestamp          time.Time  `json:"timestamp"`
}
