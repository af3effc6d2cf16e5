package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors for the common failure classes. Callers match with
// errors.Is; the concrete *APIError carries the status and server detail.
var (
	// ErrUnauthorized indicates a missing, invalid, or expired token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested chat, message, or memory does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoBody indicates a streaming response arrived without a body.
	ErrNoBody = errors.New("response has no body")
)

// APIError is a non-success response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Is maps status codes onto the sentinel errors so callers can use errors.Is
// without inspecting status codes themselves.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// decodeError turns a non-2xx response into an *APIError, pulling the
// FastAPI-style {"detail": "..."} message out of the body when present.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Detail == "" {
		payload.Detail = string(body)
	}

	return &APIError{Status: resp.StatusCode, Detail: payload.Detail}
}
