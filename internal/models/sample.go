package models

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyAttached is returned when a write-once field on a sample is
// assigned a second time
var ErrAlreadyAttached = errors.New("sample field already attached")

// ClassifierResult is one (activity type, score) pair produced by the
// activity classifier
type ClassifierResult struct {
	ActivityType string  `json:"activityType"`
	Score        float64 `json:"score"`
}

// Sample is the composite locomotion record covering one sample window.
// It combines the fusion engine's representative location, the raw and
// filtered fixes collected over the window, motion-derived scalars and the
// moving-state verdict into a single immutable value.
//
// A sample never changes after construction except for two write-once
// attachments: classifier results (set by the activity classifier) and the
// parent segment id (set when the sample is adopted by a timeline segment).
// Both are guarded so the immutability contract holds under concurrent reads.
type Sample struct {
	// Serialization goes through MarshalJSON and the repository's manual
	// scanning, so the exported fields carry no struct tags.
	ID        string
	Timestamp time.Time

	// RepresentativeLocation is nil when the window produced no usable fix.
	// When nil the sample's timestamp is the build wall-clock time and the
	// fix lists are empty; such samples carry no sensor grounding.
	RepresentativeLocation *Location

	RawFixes      []Fix
	FilteredFixes []Fix

	MovingState    MovingState
	RecordingState RecordingState

	// Motion scalars; nil when the sensor stream was unavailable.
	StepFrequency        *float64 // Hz
	CourseVariance       *float64 // 0~1
	LateralAcceleration  *float64 // m/s²
	VerticalAcceleration *float64 // m/s²

	mu                sync.Mutex
	topActivityType   *string
	classifierResults []ClassifierResult
	classified        bool
	parentSegmentID   *int64
	parentAttached    bool

	timeOfDayOnce sync.Once
	timeOfDay     time.Duration
}

// Equal reports whether two samples are the same sample. Identity is defined
// solely by id, regardless of field contents.
func (s *Sample) Equal(other *Sample) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ID == other.ID
}

// HasLocation reports whether the sample carries a representative location
func (s *Sample) HasLocation() bool {
	return s != nil && s.RepresentativeLocation != nil
}

// TopActivityType returns the highest-scored activity label, or false when
// no classifier result exists
func (s *Sample) TopActivityType() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topActivityType == nil {
		return "", false
	}
	return *s.topActivityType, true
}

// ClassifierResults returns a copy of the attached classifier results,
// highest score first
func (s *Sample) ClassifierResults() []ClassifierResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classifierResults == nil {
		return nil
	}
	out := make([]ClassifierResult, len(s.classifierResults))
	copy(out, s.classifierResults)
	return out
}

// AttachClassifierResults assigns the classifier's scored labels to the
// sample. The slice must be sorted descending by score; the top activity type
// is kept consistent with the first entry. A second attach fails with
// ErrAlreadyAttached.
func (s *Sample) AttachClassifierResults(results []ClassifierResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classified {
		return ErrAlreadyAttached
	}
	s.classified = true

	s.classifierResults = make([]ClassifierResult, len(results))
	copy(s.classifierResults, results)
	if len(s.classifierResults) > 0 {
		top := s.classifierResults[0].ActivityType
		s.topActivityType = &top
	} else {
		s.topActivityType = nil
	}
	return nil
}

// ParentSegmentID returns the id of the timeline segment this sample belongs
// to, or false when the sample is unattached (direct-capture mode)
func (s *Sample) ParentSegmentID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parentSegmentID == nil {
		return 0, false
	}
	return *s.parentSegmentID, true
}

// AttachParentSegment records the non-owning back-reference to the enclosing
// timeline segment. Write-once; a second attach fails with ErrAlreadyAttached.
func (s *Sample) AttachParentSegment(segmentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parentAttached {
		return ErrAlreadyAttached
	}
	s.parentAttached = true
	s.parentSegmentID = &segmentID
	return nil
}

// SampleParams carries the field values for a new sample. Filled in by the
// sampling builder from one fusion-engine batch.
type SampleParams struct {
	ID                     string
	Timestamp              time.Time
	RepresentativeLocation *Location
	RawFixes               []Fix
	FilteredFixes          []Fix
	MovingState            MovingState
	RecordingState         RecordingState
	StepFrequency          *float64
	CourseVariance         *float64
	LateralAcceleration    *float64
	VerticalAcceleration   *float64
	TopActivityType        *string
}

// NewSample constructs a sample from builder-resolved params
func NewSample(p SampleParams) *Sample {
	s := &Sample{
		ID:                     p.ID,
		Timestamp:              p.Timestamp,
		RepresentativeLocation: p.RepresentativeLocation,
		RawFixes:               p.RawFixes,
		FilteredFixes:          p.FilteredFixes,
		MovingState:            p.MovingState,
		RecordingState:         p.RecordingState,
		StepFrequency:          p.StepFrequency,
		CourseVariance:         p.CourseVariance,
		LateralAcceleration:    p.LateralAcceleration,
		VerticalAcceleration:   p.VerticalAcceleration,
	}
	if p.TopActivityType != nil {
		top := *p.TopActivityType
		s.topActivityType = &top
	}
	return s
}

// sampleJSON is the wire shape of a sample, including the write-once
// attachments held in unexported fields
type sampleJSON struct {
	ID                     string             `json:"id"`
	Timestamp              time.Time          `json:"timestamp"`
	RepresentativeLocation *Location          `json:"representativeLocation,omitempty"`
	RawFixes               []Fix              `json:"rawFixes,omitempty"`
	FilteredFixes          []Fix              `json:"filteredFixes,omitempty"`
	MovingState            MovingState        `json:"movingState"`
	RecordingState         RecordingState     `json:"recordingState"`
	StepFrequency          *float64           `json:"stepFrequency,omitempty"`
	CourseVariance         *float64           `json:"courseVariance,omitempty"`
	LateralAcceleration    *float64           `json:"lateralAcceleration,omitempty"`
	VerticalAcceleration   *float64           `json:"verticalAcceleration,omitempty"`
	TopActivityType        *string            `json:"topActivityType,omitempty"`
	ClassifierResults      []ClassifierResult `json:"classifierResults,omitempty"`
	ParentSegmentID        *int64             `json:"parentSegmentId,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (s *Sample) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	out := sampleJSON{
		ID:                     s.ID,
		Timestamp:              s.Timestamp,
		RepresentativeLocation: s.RepresentativeLocation,
		RawFixes:               s.RawFixes,
		FilteredFixes:          s.FilteredFixes,
		MovingState:            s.MovingState,
		RecordingState:         s.RecordingState,
		StepFrequency:          s.StepFrequency,
		CourseVariance:         s.CourseVariance,
		LateralAcceleration:    s.LateralAcceleration,
		VerticalAcceleration:   s.VerticalAcceleration,
		TopActivityType:        s.topActivityType,
		ClassifierResults:      s.classifierResults,
		ParentSegmentID:        s.parentSegmentID,
	}
	s.mu.Unlock()
	return json.Marshal(out)
}

// TimeOfDay returns the sample's offset from local midnight, computed once
// per instance
func (s *Sample) TimeOfDay() time.Duration {
	s.timeOfDayOnce.Do(func() {
		t := s.Timestamp
		midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		s.timeOfDay = t.Sub(midnight)
	})
	return s.timeOfDay
}
