package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when the API rejected the bearer token. By
// the time the caller sees it, the unauthorized hook has already run.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is a non-2xx response from the API
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Path, e.Status, msg)
	}
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.Path, e.Status, e.Body)
}

// Message extracts the human readable message the API put in the body
func (e *APIError) Message() string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
