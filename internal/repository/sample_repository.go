package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lokokit/locomotion-backend-go/internal/models"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// repositories can run standalone or inside a transaction
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// SampleRepository handles database operations for composite samples
type SampleRepository struct {
	db DBTX
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db DBTX) *SampleRepository {
	return &SampleRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *SampleRepository) WithTx(tx *sql.Tx) *SampleRepository {
	return &SampleRepository{db: tx}
}

const sampleColumns = `id, timestamp, latitude, longitude, horizontal_accuracy,
	altitude, vertical_accuracy, course, speed, raw_fixes, filtered_fixes,
	moving_state, recording_state, step_frequency, course_variance,
	lateral_acceleration, vertical_acceleration, top_activity_type,
	classifier_results, segment_id`

// Insert stores a sample
func (r *SampleRepository) Insert(s *models.Sample) error {
	rawJSON, err := encodeFixes(s.RawFixes)
	if err != nil {
		return fmt.Errorf("failed to encode raw fixes: %w", err)
	}
	filteredJSON, err := encodeFixes(s.FilteredFixes)
	if err != nil {
		return fmt.Errorf("failed to encode filtered fixes: %w", err)
	}

	var lat, lon, hAcc, alt, vAcc, course, speed interface{}
	if loc := s.RepresentativeLocation; loc != nil {
		lat = loc.Coordinate.Latitude
		lon = loc.Coordinate.Longitude
		hAcc = loc.HorizontalAccuracy
		alt = nullableFloat(loc.Altitude)
		vAcc = nullableFloat(loc.VerticalAccuracy)
		course = nullableFloat(loc.Course)
		speed = nullableFloat(loc.Speed)
	}

	var topActivity interface{}
	if top, ok := s.TopActivityType(); ok {
		topActivity = top
	}

	var classifierJSON interface{}
	if results := s.ClassifierResults(); results != nil {
		encoded, err := json.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to encode classifier results: %w", err)
		}
		classifierJSON = string(encoded)
	}

	var segmentID interface{}
	if id, ok := s.ParentSegmentID(); ok {
		segmentID = id
	}

	query := `INSERT INTO samples (` + sampleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Timestamps persist at millisecond granularity so sub-second sample
	// windows survive a round trip
	_, err = r.db.Exec(query,
		s.ID, s.Timestamp.UnixMilli(), lat, lon, hAcc, alt, vAcc, course, speed,
		rawJSON, filteredJSON,
		string(s.MovingState), string(s.RecordingState),
		nullableFloat(s.StepFrequency), nullableFloat(s.CourseVariance),
		nullableFloat(s.LateralAcceleration), nullableFloat(s.VerticalAcceleration),
		topActivity, classifierJSON, segmentID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// GetByID retrieves a single sample by id. Returns nil when not found.
func (r *SampleRepository) GetByID(id string) (*models.Sample, error) {
	row := r.db.QueryRow(`SELECT `+sampleColumns+` FROM samples WHERE id = ?`, id)
	s, err := scanSample(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	return s, nil
}

// GetSamples retrieves samples with filtering and pagination, newest first
func (r *SampleRepository) GetSamples(filter models.SampleFilter) ([]*models.Sample, int64, error) {
	var conditions []string
	var args []interface{}

	// Filters arrive in Unix seconds; the column holds milliseconds
	if filter.StartTime > 0 {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartTime*1000)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndTime*1000)
	}
	if filter.MovingState != "" {
		conditions = append(conditions, "moving_state = ?")
		args = append(args, filter.MovingState)
	}
	if filter.RecordingState != "" {
		conditions = append(conditions, "recording_state = ?")
		args = append(args, filter.RecordingState)
	}
	if filter.ActivityType != "" {
		conditions = append(conditions, "top_activity_type = ?")
		args = append(args, filter.ActivityType)
	}
	if filter.SegmentID > 0 {
		conditions = append(conditions, "segment_id = ?")
		args = append(args, filter.SegmentID)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM samples"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count samples: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `SELECT ` + sampleColumns + ` FROM samples` + where +
		" ORDER BY timestamp DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []*models.Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}

	return samples, total, rows.Err()
}

// GetBySegmentID retrieves a segment's samples in time order
func (r *SampleRepository) GetBySegmentID(segmentID int64) ([]*models.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples WHERE segment_id = ? ORDER BY timestamp ASC`
	rows, err := r.db.Query(query, segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query segment samples: %w", err)
	}
	defer rows.Close()

	var samples []*models.Sample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// UpdateClassifierResults persists the classifier attachment for a sample.
// The guarded update makes write-once hold at the storage layer: a second
// attach fails with models.ErrAlreadyAttached even across processes.
func (r *SampleRepository) UpdateClassifierResults(id string, results []models.ClassifierResult) error {
	encoded, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode classifier results: %w", err)
	}

	var topActivity interface{}
	if len(results) > 0 {
		topActivity = results[0].ActivityType
	}

	res, err := r.db.Exec(
		`UPDATE samples SET classifier_results = ?, top_activity_type = ?
		WHERE id = ? AND classifier_results IS NULL`,
		string(encoded), topActivity, id)
	if err != nil {
		return fmt.Errorf("failed to update classifier results: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.writeOnceFailure(id)
	}
	return nil
}

// AttachSegment persists the parent segment back-reference for a sample.
// Guarded the same way as classifier results: a sample already adopted by a
// segment cannot be re-adopted.
func (r *SampleRepository) AttachSegment(id string, segmentID int64) error {
	res, err := r.db.Exec(
		"UPDATE samples SET segment_id = ? WHERE id = ? AND segment_id IS NULL",
		segmentID, id)
	if err != nil {
		return fmt.Errorf("failed to attach segment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.writeOnceFailure(id)
	}
	return nil
}

// writeOnceFailure distinguishes a missing sample from a write-once
// violation after a guarded update matched no rows
func (r *SampleRepository) writeOnceFailure(id string) error {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM samples WHERE id = ?", id).Scan(&count); err != nil {
		return fmt.Errorf("failed to check sample: %w", err)
	}
	if count > 0 {
		return models.ErrAlreadyAttached
	}
	return sql.ErrNoRows
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSample rebuilds a sample from one row. Write-once attachments are
// replayed through the model's attach hooks so the in-memory invariants hold.
func scanSample(row rowScanner) (*models.Sample, error) {
	var (
		id, movingState, recordingState          string
		ts                                       int64
		lat, lon, hAcc                           sql.NullFloat64
		alt, vAcc, course, speed                 sql.NullFloat64
		rawJSON, filteredJSON                    sql.NullString
		stepFreq, courseVar, latAccel, vertAccel sql.NullFloat64
		topActivity, classifierJSON              sql.NullString
		segmentID                                sql.NullInt64
	)

	err := row.Scan(&id, &ts, &lat, &lon, &hAcc, &alt, &vAcc, &course, &speed,
		&rawJSON, &filteredJSON, &movingState, &recordingState,
		&stepFreq, &courseVar, &latAccel, &vertAccel,
		&topActivity, &classifierJSON, &segmentID)
	if err != nil {
		return nil, err
	}

	params := models.SampleParams{
		ID:                   id,
		Timestamp:            time.UnixMilli(ts).UTC(),
		MovingState:          models.MovingState(movingState),
		RecordingState:       models.RecordingState(recordingState),
		StepFrequency:        floatPtr(stepFreq),
		CourseVariance:       floatPtr(courseVar),
		LateralAcceleration:  floatPtr(latAccel),
		VerticalAcceleration: floatPtr(vertAccel),
	}

	if lat.Valid && lon.Valid {
		params.RepresentativeLocation = &models.Location{
			Coordinate:         models.Coordinate{Latitude: lat.Float64, Longitude: lon.Float64},
			Timestamp:          params.Timestamp,
			HorizontalAccuracy: hAcc.Float64,
			Altitude:           floatPtr(alt),
			VerticalAccuracy:   floatPtr(vAcc),
			Course:             floatPtr(course),
			Speed:              floatPtr(speed),
		}
	}

	if params.RawFixes, err = decodeFixes(rawJSON); err != nil {
		return nil, fmt.Errorf("failed to decode raw fixes: %w", err)
	}
	if params.FilteredFixes, err = decodeFixes(filteredJSON); err != nil {
		return nil, fmt.Errorf("failed to decode filtered fixes: %w", err)
	}
	if topActivity.Valid {
		params.TopActivityType = &topActivity.String
	}

	s := models.NewSample(params)

	if classifierJSON.Valid {
		var results []models.ClassifierResult
		if err := json.Unmarshal([]byte(classifierJSON.String), &results); err != nil {
			return nil, fmt.Errorf("failed to decode classifier results: %w", err)
		}
		if err := s.AttachClassifierResults(results); err != nil {
			return nil, err
		}
	}
	if segmentID.Valid {
		if err := s.AttachParentSegment(segmentID.Int64); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func encodeFixes(fixes []models.Fix) (interface{}, error) {
	if len(fixes) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(fixes)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func decodeFixes(col sql.NullString) ([]models.Fix, error) {
	if !col.Valid {
		return nil, nil
	}
	var fixes []models.Fix
	if err := json.Unmarshal([]byte(col.String), &fixes); err != nil {
		return nil, err
	}
	return fixes, nil
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
