// Package sampling turns fusion-engine output batches into composite
// locomotion samples.
package sampling

import (
	"time"

	"github.com/google/uuid"

	"github.com/lokokit/locomotion-backend-go/internal/models"
)

// Batch is one fusion-engine output covering a single sample window.
// Everything optional is a pointer; the fusion engine delivers the batch
// already resolved to "data present" or "data absent".
type Batch struct {
	// RepresentativeLocation is the smoothed location anchoring the sample,
	// nil when the window produced no usable fix.
	RepresentativeLocation *models.Location `json:"representativeLocation,omitempty"`

	RawFixes      []models.Fix `json:"rawFixes,omitempty"`
	FilteredFixes []models.Fix `json:"filteredFixes,omitempty"`

	MovingState    models.MovingState    `json:"movingState"`
	RecordingState models.RecordingState `json:"recordingState"`

	// Course and Speed are computed by the fusion engine independently of
	// the fix that anchors position, and replace the location's own values.
	Course *float64 `json:"course,omitempty"` // Degrees, 0 = North
	Speed  *float64 `json:"speed,omitempty"`  // Meters per second

	StepFrequency        *float64 `json:"stepFrequency,omitempty"`        // Hz
	CourseVariance       *float64 `json:"courseVariance,omitempty"`       // 0~1
	LateralAcceleration  *float64 `json:"lateralAcceleration,omitempty"`  // m/s²
	VerticalAcceleration *float64 `json:"verticalAcceleration,omitempty"` // m/s²

	TopActivityType *string `json:"topActivityType,omitempty"`
}

// Builder constructs composite samples from fusion-engine batches
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a new sample builder
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Build constructs one immutable sample from one batch. It never fails:
// missing inputs degrade to absent fields.
//
// When the batch carries a representative location the sample's timestamp is
// that location's timestamp and the location's coordinate, altitude and
// accuracy fields are copied verbatim, with course and speed overridden from
// the batch-level values. Without a location the fix lists are empty and the
// timestamp falls back to wall-clock time; callers must treat such samples
// as low-confidence since they have no sensor grounding.
func (b *Builder) Build(batch Batch) *models.Sample {
	params := models.SampleParams{
		ID:                   uuid.NewString(),
		MovingState:          batch.MovingState,
		RecordingState:       batch.RecordingState,
		StepFrequency:        batch.StepFrequency,
		CourseVariance:       batch.CourseVariance,
		LateralAcceleration:  batch.LateralAcceleration,
		VerticalAcceleration: batch.VerticalAcceleration,
		TopActivityType:      batch.TopActivityType,
	}

	if loc := batch.RepresentativeLocation; loc != nil {
		copied := *loc
		copied.Course = batch.Course
		copied.Speed = batch.Speed
		params.RepresentativeLocation = &copied
		params.Timestamp = loc.Timestamp
		params.RawFixes = copyFixes(batch.RawFixes)
		params.FilteredFixes = copyFixes(batch.FilteredFixes)
	} else {
		params.Timestamp = b.now()
	}

	return models.NewSample(params)
}

func copyFixes(fixes []models.Fix) []models.Fix {
	if len(fixes) == 0 {
		return nil
	}
	out := make([]models.Fix, len(fixes))
	copy(out, fixes)
	return out
}
