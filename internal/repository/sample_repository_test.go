package repository

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lokokit/locomotion-backend-go/internal/database"
	"github.com/lokokit/locomotion-backend-go/internal/models"
)

func floatp(v float64) *float64 { return &v }

func testDB(t *testing.T) *SampleRepository {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSampleRepository(db)
}

func testSample(id string, ts time.Time) *models.Sample {
	return models.NewSample(models.SampleParams{
		ID:        id,
		Timestamp: ts,
		RepresentativeLocation: &models.Location{
			Coordinate:         models.Coordinate{Latitude: 10, Longitude: 20},
			Timestamp:          ts,
			HorizontalAccuracy: 5,
			Altitude:           floatp(80),
			VerticalAccuracy:   floatp(8),
			Course:             floatp(90),
			Speed:              floatp(2),
		},
		RawFixes: []models.Fix{
			{Coordinate: models.Coordinate{Latitude: 10.0001, Longitude: 20}, HorizontalAccuracy: 12, Timestamp: ts},
		},
		FilteredFixes: []models.Fix{
			{Coordinate: models.Coordinate{Latitude: 10, Longitude: 20}, HorizontalAccuracy: 6, Timestamp: ts},
		},
		MovingState:    models.MovingStateMoving,
		RecordingState: models.RecordingStateRecording,
		StepFrequency:  floatp(1.8),
	})
}

func TestInsertAndGetByID(t *testing.T) {
	repo := testDB(t)
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	original := testSample("sample-1", ts)
	require.NoError(t, repo.Insert(original))

	got, err := repo.GetByID("sample-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.Equal(t, original.ID, got.ID)
	require.True(t, got.Timestamp.Equal(ts))
	require.NotNil(t, got.RepresentativeLocation)
	require.Equal(t, 10.0, got.RepresentativeLocation.Coordinate.Latitude)
	require.Equal(t, 20.0, got.RepresentativeLocation.Coordinate.Longitude)
	require.Equal(t, 5.0, got.RepresentativeLocation.HorizontalAccuracy)
	require.Equal(t, 80.0, *got.RepresentativeLocation.Altitude)
	require.Equal(t, 90.0, *got.RepresentativeLocation.Course)
	require.Equal(t, 2.0, *got.RepresentativeLocation.Speed)
	require.Len(t, got.RawFixes, 1)
	require.Len(t, got.FilteredFixes, 1)
	require.Equal(t, models.MovingStateMoving, got.MovingState)
	require.Equal(t, models.RecordingStateRecording, got.RecordingState)
	require.Equal(t, 1.8, *got.StepFrequency)

	_, hasParent := got.ParentSegmentID()
	require.False(t, hasParent)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := testDB(t)
	got, err := repo.GetByID("missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestInsertSampleWithoutLocation(t *testing.T) {
	repo := testDB(t)
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	bare := models.NewSample(models.SampleParams{
		ID:             "bare-1",
		Timestamp:      ts,
		MovingState:    models.MovingStateUnknown,
		RecordingState: models.RecordingStateSleeping,
	})
	require.NoError(t, repo.Insert(bare))

	got, err := repo.GetByID("bare-1")
	require.NoError(t, err)
	require.Nil(t, got.RepresentativeLocation)
	require.Empty(t, got.RawFixes)
	require.Empty(t, got.FilteredFixes)
	require.Nil(t, got.StepFrequency)
}

func TestUpdateClassifierResults(t *testing.T) {
	repo := testDB(t)
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(testSample("sample-1", ts)))

	results := []models.ClassifierResult{
		{ActivityType: models.ActivityCycling, Score: 0.7},
		{ActivityType: models.ActivityWalking, Score: 0.3},
	}
	require.NoError(t, repo.UpdateClassifierResults("sample-1", results))

	got, err := repo.GetByID("sample-1")
	require.NoError(t, err)
	require.Equal(t, results, got.ClassifierResults())
	top, ok := got.TopActivityType()
	require.True(t, ok)
	require.Equal(t, models.ActivityCycling, top)

	require.Error(t, repo.UpdateClassifierResults("missing", results))

	// Stored results are write-once even across repository instances
	err = repo.UpdateClassifierResults("sample-1", []models.ClassifierResult{
		{ActivityType: models.ActivityStationary, Score: 0.9},
	})
	require.ErrorIs(t, err, models.ErrAlreadyAttached)

	got, err = repo.GetByID("sample-1")
	require.NoError(t, err)
	require.Equal(t, results, got.ClassifierResults())
}

func TestInsertPreservesSubSecondTimestamps(t *testing.T) {
	repo := testDB(t)
	ts := time.Date(2024, 6, 1, 9, 0, 0, int(250*time.Millisecond), time.UTC)

	require.NoError(t, repo.Insert(testSample("sub-second", ts)))

	got, err := repo.GetByID("sub-second")
	require.NoError(t, err)
	require.True(t, got.Timestamp.Equal(ts), "expected %v, got %v", ts, got.Timestamp)
}

func TestAttachSegmentAndGetBySegmentID(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSampleRepository(db)
	segRepo := NewSegmentRepository(db)

	segID, err := segRepo.Create(&models.Segment{ActivityType: models.ActivityWalking})
	require.NoError(t, err)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	// Insert out of time order; reads must come back ordered
	for _, offset := range []int{60, 0, 30} {
		s := testSample(
			"sample-"+strconv.Itoa(offset),
			base.Add(time.Duration(offset)*time.Second))
		require.NoError(t, repo.Insert(s))
		require.NoError(t, repo.AttachSegment(s.ID, segID))
	}

	samples, err := repo.GetBySegmentID(segID)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	for i := 1; i < len(samples); i++ {
		require.False(t, samples[i].Timestamp.Before(samples[i-1].Timestamp),
			"segment samples must come back in time order")
	}
	for _, s := range samples {
		id, ok := s.ParentSegmentID()
		require.True(t, ok)
		require.Equal(t, segID, id)
	}

	// A stored sample keeps its first segment
	otherID, err := segRepo.Create(&models.Segment{ActivityType: models.ActivityCycling})
	require.NoError(t, err)
	err = repo.AttachSegment(samples[0].ID, otherID)
	require.ErrorIs(t, err, models.ErrAlreadyAttached)
}

func TestGetSamplesFilterAndPagination(t *testing.T) {
	repo := testDB(t)
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s := testSample("sample-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Insert(s))
	}

	samples, total, err := repo.GetSamples(models.SampleFilter{
		StartTime: base.Add(time.Minute).Unix(),
		EndTime:   base.Add(3 * time.Minute).Unix(),
		Page:      1,
		PageSize:  2,
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, samples, 2)

	samples, total, err = repo.GetSamples(models.SampleFilter{
		MovingState: string(models.MovingStateStationary),
		Page:        1,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
	require.Empty(t, samples)
}
