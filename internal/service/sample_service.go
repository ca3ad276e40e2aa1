package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/lokokit/locomotion-backend-go/internal/models"
	"github.com/lokokit/locomotion-backend-go/internal/repository"
	"github.com/lokokit/locomotion-backend-go/internal/sampling"
)

// SampleService handles business logic for composite samples
type SampleService struct {
	sampleRepo *repository.SampleRepository
	builder    *sampling.Builder
}

// NewSampleService creates a new sample service
func NewSampleService(sampleRepo *repository.SampleRepository) *SampleService {
	return &SampleService{
		sampleRepo: sampleRepo,
		builder:    sampling.NewBuilder(),
	}
}

// IngestBatch builds one composite sample from a fusion-engine batch and
// stores it
func (s *SampleService) IngestBatch(batch sampling.Batch) (*models.Sample, error) {
	sample := s.builder.Build(batch)
	if err := s.sampleRepo.Insert(sample); err != nil {
		return nil, fmt.Errorf("failed to store sample: %w", err)
	}
	return sample, nil
}

// GetSamples retrieves samples with filtering and pagination
func (s *SampleService) GetSamples(filter models.SampleFilter) (*models.SamplesResponse, error) {
	// Validate filter
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	samples, total, err := s.sampleRepo.GetSamples(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get samples: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))

	return &models.SamplesResponse{
		Data:       samples,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetSampleByID retrieves a single sample by id
func (s *SampleService) GetSampleByID(id string) (*models.Sample, error) {
	sample, err := s.sampleRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	if sample == nil {
		return nil, fmt.Errorf("sample not found")
	}
	return sample, nil
}

// AttachClassifierResults records the classifier's scored labels for a
// sample. Results are sorted descending by score before persisting so the
// top activity type always matches the first entry.
func (s *SampleService) AttachClassifierResults(id string, results []models.ClassifierResult) (*models.Sample, error) {
	sample, err := s.sampleRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	if sample == nil {
		return nil, fmt.Errorf("sample not found")
	}

	sorted := make([]models.ClassifierResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	if err := sample.AttachClassifierResults(sorted); err != nil {
		return nil, err
	}
	if err := s.sampleRepo.UpdateClassifierResults(id, sorted); err != nil {
		return nil, fmt.Errorf("failed to persist classifier results: %w", err)
	}

	return sample, nil
}
