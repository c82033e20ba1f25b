package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

// Common service errors
var (
	// ErrTimeout indicates the service did not answer within the request timeout
	ErrTimeout = errors.New("request timed out")

	// ErrEmptyAudio indicates a success response carried no audio
	ErrEmptyAudio = errors.New("service returned empty audio")

	// ErrAudioTooLarge indicates the response body exceeded the read limit
	ErrAudioTooLarge = errors.New("service returned too much audio")

	// ErrInvalidURL indicates the configured service URL cannot be used
	ErrInvalidURL = errors.New("invalid service URL")
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code   int    // HTTP status code
	Detail string // Server-provided detail, if any
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP error, status: %d (%s)", e.Code, e.Detail)
	}
	return fmt.Sprintf("HTTP error, status: %d", e.Code)
}

// StatusCode returns the HTTP status code of err if it is, or wraps, a
// *StatusError.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

// parseDetail extracts a FastAPI style {"detail": ...} message from an error
// body. Non-JSON bodies are returned trimmed and shortened.
func parseDetail(body []byte) string {
	const maxDetail = 200

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		// Validation errors come back as a list of objects
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}

	detail := strings.TrimSpace(string(body))
	if strings.HasPrefix(detail, "{") || strings.HasPrefix(detail, "<") {
		return ""
	}
	detail = runewidth.Truncate(detail, maxDetail, "…")
	return detail
}
