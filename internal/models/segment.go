package models

import "time"

// Segment represents a timeline segment: a contiguous, time-ordered span of
// composite samples owned by the trajectory manager
type Segment struct {
	ID int64 `json:"id" db:"id"`

	// Temporal info
	StartTime       int64 `json:"start_time" db:"start_time"`             // Unix timestamp
	EndTime         int64 `json:"end_time" db:"end_time"`                 // Unix timestamp
	DurationSeconds int64 `json:"duration_seconds" db:"duration_seconds"` // Duration in seconds

	// Spatial summary, recomputed from the segment's samples
	DistanceMeters float64 `json:"distance_meters,omitempty" db:"distance_meters"`
	CenterLat      float64 `json:"center_lat,omitempty" db:"center_lat"`
	CenterLon      float64 `json:"center_lon,omitempty" db:"center_lon"`
	RadiusMean     float64 `json:"radius_mean,omitempty" db:"radius_mean"`
	RadiusSD       float64 `json:"radius_sd,omitempty" db:"radius_sd"`

	// Classification
	ActivityType string `json:"activity_type,omitempty" db:"activity_type"`

	SampleCount int `json:"sample_count" db:"sample_count"`

	// Metadata
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SegmentStatistics is the reducer summary exposed for one segment's samples
type SegmentStatistics struct {
	SegmentID   int64 `json:"segmentId"`
	SampleCount int   `json:"sampleCount"`

	Center          *Coordinate `json:"center,omitempty"`
	WeightedCenter  *Coordinate `json:"weightedCenter,omitempty"`
	RadiusMean      float64     `json:"radiusMean"`
	RadiusSD        float64     `json:"radiusSD"`
	DurationSeconds float64     `json:"durationSeconds"`
	DistanceMeters  float64     `json:"distanceMeters"`

	// Initial bearing from the first to the last present location
	BearingDegrees *float64 `json:"bearingDegrees,omitempty"`

	WeightedMeanAltitude *float64 `json:"weightedMeanAltitude,omitempty"`

	SpeedMean *float64 `json:"speedMean,omitempty"` // Meters per second
	SpeedMax  *float64 `json:"speedMax,omitempty"`  // Meters per second

	HorizontalAccuracyMin *float64 `json:"horizontalAccuracyMin,omitempty"`
	HorizontalAccuracyMax *float64 `json:"horizontalAccuracyMax,omitempty"`
	VerticalAccuracyMin   *float64 `json:"verticalAccuracyMin,omitempty"`
	VerticalAccuracyMax   *float64 `json:"verticalAccuracyMax,omitempty"`
}
