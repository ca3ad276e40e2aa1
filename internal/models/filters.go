package models

// SampleFilter represents filter parameters for querying samples
type SampleFilter struct {
	StartTime      int64  `form:"startTime"` // Unix timestamp
	EndTime        int64  `form:"endTime"`   // Unix timestamp
	MovingState    string `form:"movingState"`
	RecordingState string `form:"recordingState"`
	ActivityType   string `form:"activityType"`
	SegmentID      int64  `form:"segmentId"`
	Page           int    `form:"page"`
	PageSize       int    `form:"pageSize"`
}

// SamplesResponse represents a paginated response of samples
type SamplesResponse struct {
	Data       []*Sample `json:"data"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

// SegmentFilter represents filter parameters for querying segments
type SegmentFilter struct {
	StartTime    int64  `form:"startTime"`
	EndTime      int64  `form:"endTime"`
	ActivityType string `form:"activityType"`
	MinDuration  int64  `form:"minDuration"` // Minimum duration in seconds
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// SegmentsResponse represents a paginated response of segments
type SegmentsResponse struct {
	Data       []Segment `json:"data"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}
