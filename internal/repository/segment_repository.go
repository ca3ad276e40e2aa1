package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lokokit/locomotion-backend-go/internal/models"
)

// SegmentRepository handles database operations for timeline segments
type SegmentRepository struct {
	db DBTX
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db DBTX) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *SegmentRepository) WithTx(tx *sql.Tx) *SegmentRepository {
	return &SegmentRepository{db: tx}
}

// Create inserts a new segment and returns its id
func (r *SegmentRepository) Create(seg *models.Segment) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO segments (start_time, end_time, duration_seconds, distance_meters,
			center_lat, center_lon, radius_mean, radius_sd, activity_type, sample_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seg.StartTime, seg.EndTime, seg.DurationSeconds, seg.DistanceMeters,
		seg.CenterLat, seg.CenterLon, seg.RadiusMean, seg.RadiusSD,
		seg.ActivityType, seg.SampleCount,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert segment: %w", err)
	}
	return res.LastInsertId()
}

// GetByID retrieves a single segment by id. Returns nil when not found.
func (r *SegmentRepository) GetByID(id int64) (*models.Segment, error) {
	row := r.db.QueryRow(`
		SELECT id, start_time, end_time, duration_seconds, distance_meters,
			center_lat, center_lon, radius_mean, radius_sd, activity_type,
			sample_count, created_at, updated_at
		FROM segments WHERE id = ?`, id)

	seg, err := scanSegment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}
	return seg, nil
}

// GetSegments retrieves segments with filtering and pagination, newest first
func (r *SegmentRepository) GetSegments(filter models.SegmentFilter) ([]models.Segment, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.StartTime > 0 {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "end_time <= ?")
		args = append(args, filter.EndTime)
	}
	if filter.ActivityType != "" {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, filter.ActivityType)
	}
	if filter.MinDuration > 0 {
		conditions = append(conditions, "duration_seconds >= ?")
		args = append(args, filter.MinDuration)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM segments"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count segments: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `
		SELECT id, start_time, end_time, duration_seconds, distance_meters,
			center_lat, center_lon, radius_mean, radius_sd, activity_type,
			sample_count, created_at, updated_at
		FROM segments` + where + " ORDER BY start_time DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var segments []models.Segment
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, *seg)
	}

	return segments, total, rows.Err()
}

// UpdateSummary stores the recomputed reducer summary for a segment
func (r *SegmentRepository) UpdateSummary(seg *models.Segment) error {
	_, err := r.db.Exec(`
		UPDATE segments
		SET start_time = ?, end_time = ?, duration_seconds = ?, distance_meters = ?,
			center_lat = ?, center_lon = ?, radius_mean = ?, radius_sd = ?,
			sample_count = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		seg.StartTime, seg.EndTime, seg.DurationSeconds, seg.DistanceMeters,
		seg.CenterLat, seg.CenterLon, seg.RadiusMean, seg.RadiusSD,
		seg.SampleCount, seg.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update segment summary: %w", err)
	}
	return nil
}

func scanSegment(row rowScanner) (*models.Segment, error) {
	var seg models.Segment
	var centerLat, centerLon sql.NullFloat64
	var activityType, createdAt, updatedAt sql.NullString

	err := row.Scan(&seg.ID, &seg.StartTime, &seg.EndTime, &seg.DurationSeconds,
		&seg.DistanceMeters, &centerLat, &centerLon, &seg.RadiusMean, &seg.RadiusSD,
		&activityType, &seg.SampleCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	seg.CenterLat = centerLat.Float64
	seg.CenterLon = centerLon.Float64
	seg.ActivityType = activityType.String
	seg.CreatedAt = parseDBTime(createdAt)
	seg.UpdatedAt = parseDBTime(updatedAt)
	return &seg, nil
}

// parseDBTime parses sqlite's CURRENT_TIMESTAMP text format
func parseDBTime(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02 15:04:05", v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
