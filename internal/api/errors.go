package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks transport-level failures (no response received)
	ErrNetwork = errors.New("network failure")
	// ErrSearchFailed is the only error the search client surfaces
	ErrSearchFailed = errors.New("unable to search project openings")
)

// APIError is a structured rejection returned by a backend service
type APIError struct {
	Status  int
	Message string // user-facing text taken from the response body; may be empty
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// UserMessage extracts the user-facing message of a structured error, if any
func UserMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
