package worker

import "fmt"

// APIError carries the HTTP status and a best-effort message extracted from a
// non-OK worker response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("worker: status %d: %s", e.StatusCode, e.Message)
}
