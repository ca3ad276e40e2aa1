package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokokit/locomotion-backend-go/internal/models"
	"github.com/lokokit/locomotion-backend-go/internal/sampling"
	"github.com/lokokit/locomotion-backend-go/internal/service"
	"github.com/lokokit/locomotion-backend-go/pkg/response"
)

// SampleHandler handles HTTP requests for composite samples
type SampleHandler struct {
	sampleService *service.SampleService
}

// NewSampleHandler creates a new sample handler
func NewSampleHandler(sampleService *service.SampleService) *SampleHandler {
	return &SampleHandler{
		sampleService: sampleService,
	}
}

// IngestBatch handles POST /api/v1/samples
// One fusion-engine batch yields one stored sample.
func (h *SampleHandler) IngestBatch(c *gin.Context) {
	var batch sampling.Batch
	if err := c.ShouldBindJSON(&batch); err != nil {
		response.BadRequest(c, "Invalid batch payload")
		return
	}

	sample, err := h.sampleService.IngestBatch(batch)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, sample)
}

// GetSamples handles GET /api/v1/samples
func (h *SampleHandler) GetSamples(c *gin.Context) {
	var filter models.SampleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.sampleService.GetSamples(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetSampleByID handles GET /api/v1/samples/:id
func (h *SampleHandler) GetSampleByID(c *gin.Context) {
	sample, err := h.sampleService.GetSampleByID(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Sample not found")
		return
	}

	response.Success(c, sample)
}

// AttachClassifierResults handles POST /api/v1/samples/:id/classifier-results
// This is the write-once hook the activity classifier uses after a sample
// has been built.
func (h *SampleHandler) AttachClassifierResults(c *gin.Context) {
	var results []models.ClassifierResult
	if err := c.ShouldBindJSON(&results); err != nil {
		response.BadRequest(c, "Invalid classifier results payload")
		return
	}

	sample, err := h.sampleService.AttachClassifierResults(c.Param("id"), results)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyAttached) {
			response.Error(c, http.StatusConflict, "Classifier results already attached")
			return
		}
		response.NotFound(c, "Sample not found")
		return
	}

	response.Success(c, sample)
}
