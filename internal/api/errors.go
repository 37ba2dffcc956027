package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the API rejected the bearer token. The session
	// has already been torn down by the time a caller sees it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates a 404. Callers decide whether it means absence.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the API could not be reached.
	ErrUnavailable = errors.New("api unavailable")

	// ErrTimeout indicates the configured request timeout elapsed.
	ErrTimeout = errors.New("api request timed out")
)

// APIError is any non-2xx response other than 401 and 404.
type APIError struct {
	Status  int
	Message string // raw response body, or "API error" when empty
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Detail returns the "detail" field of a JSON error body when present,
// otherwise the raw message.
func (e *APIError) Detail() string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Message), &body); err != nil || len(body.Detail) == 0 {
		return e.Message
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	return string(body.Detail)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// *APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message renders err for a notice line, preferring the server's detail.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail()
	}
	return err.Error()
}
