package dto

import "time"

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service and dependency status.
type HealthResponse struct {
	Status   string            `json:"status" example:"ok"`
	Time     time.Time         `json:"time"`
	Services map[string]string `json:"services"`
}
