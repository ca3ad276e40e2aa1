package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lokokit/locomotion-backend-go/internal/models"
	"github.com/lokokit/locomotion-backend-go/internal/service"
	"github.com/lokokit/locomotion-backend-go/pkg/response"
)

// SegmentHandler handles HTTP requests for timeline segments
type SegmentHandler struct {
	segmentService *service.SegmentService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(segmentService *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{
		segmentService: segmentService,
	}
}

// CreateSegmentRequest is the payload for creating a segment
type CreateSegmentRequest struct {
	ActivityType string   `json:"activityType"`
	SampleIDs    []string `json:"sampleIds" binding:"required"`
}

// CreateSegment handles POST /api/v1/segments
func (h *SegmentHandler) CreateSegment(c *gin.Context) {
	var req CreateSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid segment payload")
		return
	}

	segment, err := h.segmentService.CreateSegment(req.ActivityType, req.SampleIDs)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, segment)
}

// GetSegments handles GET /api/v1/segments
func (h *SegmentHandler) GetSegments(c *gin.Context) {
	var filter models.SegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.segmentService.GetSegments(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetSegmentByID handles GET /api/v1/segments/:id
func (h *SegmentHandler) GetSegmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid segment ID")
		return
	}

	segment, err := h.segmentService.GetSegmentByID(id)
	if err != nil {
		response.NotFound(c, "Segment not found")
		return
	}

	response.Success(c, segment)
}

// GetStatistics handles GET /api/v1/segments/:id/statistics
func (h *SegmentHandler) GetStatistics(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid segment ID")
		return
	}

	result, err := h.segmentService.GetStatistics(id)
	if err != nil {
		response.NotFound(c, "Segment not found")
		return
	}

	response.Success(c, result)
}
