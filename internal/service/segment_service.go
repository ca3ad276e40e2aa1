package service

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/lokokit/locomotion-backend-go/internal/database"
	"github.com/lokokit/locomotion-backend-go/internal/models"
	"github.com/lokokit/locomotion-backend-go/internal/repository"
	"github.com/lokokit/locomotion-backend-go/internal/samplestats"
	"github.com/lokokit/locomotion-backend-go/internal/stats"
)

// SegmentService handles business logic for timeline segments
type SegmentService struct {
	db          *sql.DB
	segmentRepo *repository.SegmentRepository
	sampleRepo  *repository.SampleRepository
}

// NewSegmentService creates a new segment service
func NewSegmentService(db *sql.DB, segmentRepo *repository.SegmentRepository, sampleRepo *repository.SampleRepository) *SegmentService {
	return &SegmentService{
		db:          db,
		segmentRepo: segmentRepo,
		sampleRepo:  sampleRepo,
	}
}

// CreateSegment creates a segment, adopts the given samples and computes its
// summary from their statistics. Samples are validated up front and the
// whole adoption runs in one transaction, so a missing or already-adopted
// sample leaves no orphan segment and no partially attached samples behind.
func (s *SegmentService) CreateSegment(activityType string, sampleIDs []string) (*models.Segment, error) {
	if len(sampleIDs) == 0 {
		return nil, fmt.Errorf("segment requires at least one sample")
	}

	samples := make([]*models.Sample, 0, len(sampleIDs))
	for _, id := range sampleIDs {
		sample, err := s.sampleRepo.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to get sample %s: %w", id, err)
		}
		if sample == nil {
			return nil, fmt.Errorf("sample %s not found", id)
		}
		if _, adopted := sample.ParentSegmentID(); adopted {
			return nil, fmt.Errorf("sample %s already belongs to a segment", id)
		}
		samples = append(samples, sample)
	}

	var segmentID int64
	err := database.Transaction(s.db, func(tx *sql.Tx) error {
		segmentRepo := s.segmentRepo.WithTx(tx)
		sampleRepo := s.sampleRepo.WithTx(tx)

		var err error
		segmentID, err = segmentRepo.Create(&models.Segment{ActivityType: activityType})
		if err != nil {
			return fmt.Errorf("failed to create segment: %w", err)
		}

		for _, sample := range samples {
			if err := sample.AttachParentSegment(segmentID); err != nil {
				return fmt.Errorf("sample %s already belongs to a segment: %w", sample.ID, err)
			}
			if err := sampleRepo.AttachSegment(sample.ID, segmentID); err != nil {
				return fmt.Errorf("failed to attach sample %s: %w", sample.ID, err)
			}
		}

		return recomputeSummary(segmentRepo, sampleRepo, segmentID)
	})
	if err != nil {
		return nil, err
	}

	return s.segmentRepo.GetByID(segmentID)
}

// GetSegments retrieves segments with filtering and pagination
func (s *SegmentService) GetSegments(filter models.SegmentFilter) (*models.SegmentsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	segments, total, err := s.segmentRepo.GetSegments(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get segments: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))

	return &models.SegmentsResponse{
		Data:       segments,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetSegmentByID retrieves a single segment by id
func (s *SegmentService) GetSegmentByID(id int64) (*models.Segment, error) {
	segment, err := s.segmentRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}
	if segment == nil {
		return nil, fmt.Errorf("segment not found")
	}
	return segment, nil
}

// GetStatistics runs the full reducer set over a segment's time-ordered
// samples
func (s *SegmentService) GetStatistics(segmentID int64) (*models.SegmentStatistics, error) {
	segment, err := s.segmentRepo.GetByID(segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}
	if segment == nil {
		return nil, fmt.Errorf("segment not found")
	}

	samples, err := s.sampleRepo.GetBySegmentID(segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get segment samples: %w", err)
	}

	result := &models.SegmentStatistics{
		SegmentID:       segmentID,
		SampleCount:     len(samples),
		DurationSeconds: samplestats.Duration(samples).Seconds(),
		DistanceMeters:  samplestats.Distance(samples),
	}

	if center, ok := samplestats.Center(samples); ok {
		result.Center = &center
	}
	if weighted, ok := samplestats.WeightedCenter(samples); ok {
		result.WeightedCenter = &weighted
		result.RadiusMean, result.RadiusSD = samplestats.RadiusFrom(samples, weighted)
	}
	if alt, ok := samplestats.WeightedMeanAltitude(samples); ok {
		result.WeightedMeanAltitude = &alt
	}
	if min, max, ok := samplestats.HorizontalAccuracyRange(samples); ok {
		result.HorizontalAccuracyMin = &min
		result.HorizontalAccuracyMax = &max
	}
	if min, max, ok := samplestats.VerticalAccuracyRange(samples); ok {
		result.VerticalAccuracyMin = &min
		result.VerticalAccuracyMax = &max
	}
	if bearing, ok := samplestats.Bearing(samples); ok {
		result.BearingDegrees = &bearing
	}

	var speeds []float64
	for _, loc := range samplestats.Locations(samples) {
		if loc.Speed != nil {
			speeds = append(speeds, *loc.Speed)
		}
	}
	if len(speeds) > 0 {
		mean := stats.Mean(speeds)
		max := stats.Max(speeds)
		result.SpeedMean = &mean
		result.SpeedMax = &max
	}

	return result, nil
}

// RecomputeSummary refreshes the stored segment row from its samples
func (s *SegmentService) RecomputeSummary(segmentID int64) error {
	return recomputeSummary(s.segmentRepo, s.sampleRepo, segmentID)
}

func recomputeSummary(segmentRepo *repository.SegmentRepository, sampleRepo *repository.SampleRepository, segmentID int64) error {
	segment, err := segmentRepo.GetByID(segmentID)
	if err != nil {
		return fmt.Errorf("failed to get segment: %w", err)
	}
	if segment == nil {
		return fmt.Errorf("segment not found")
	}

	samples, err := sampleRepo.GetBySegmentID(segmentID)
	if err != nil {
		return fmt.Errorf("failed to get segment samples: %w", err)
	}

	segment.SampleCount = len(samples)
	segment.DurationSeconds = int64(samplestats.Duration(samples).Seconds())
	segment.DistanceMeters = samplestats.Distance(samples)
	if len(samples) > 0 {
		segment.StartTime = samples[0].Timestamp.Unix()
		segment.EndTime = samples[len(samples)-1].Timestamp.Unix()
	}
	if center, ok := samplestats.WeightedCenter(samples); ok {
		segment.CenterLat = center.Latitude
		segment.CenterLon = center.Longitude
		segment.RadiusMean, segment.RadiusSD = samplestats.RadiusFrom(samples, center)
	}

	return segmentRepo.UpdateSummary(segment)
}
