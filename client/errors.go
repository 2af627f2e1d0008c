package client

import (
	"encoding/json"
	"fmt"
)

// APIError represents an error response from the Grafana API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	TraceID    string `json:"traceID,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("grafana: %d: %s (traceID=%s)", e.StatusCode, e.Message, e.TraceID)
	}
	return fmt.Sprintf("grafana: %d: %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 404
	}
	return false
}

// IsUnauthorized returns true if the error is a 401 or 403.
func IsUnauthorized(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}
