package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is matched by errors.Is for every 401 response. The
	// session that sent the request has already been cleared when a caller
	// sees it.
	ErrUnauthorized = errors.New("authentication required")
	// ErrNotFound is matched by errors.Is for every 404 response.
	ErrNotFound = errors.New("not found")
	// ErrBlobTooLarge is returned when a PDF or image exceeds the download
	// limit.
	ErrBlobTooLarge = errors.New("response too large")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Retryable reports whether showing a retry affordance makes sense.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusRequestTimeout || e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports whether err came from a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err came from a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode extracts the HTTP status from err, or 0 if err is not an
// APIError (network failures, timeouts, decode errors).
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

const maxMessageLen = 200

// errorMessage pulls a human message out of an error body. The backend uses
// "message", "error" and "msg" interchangeably and sometimes plain text.
func errorMessage(status int, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var fields map[string]interface{}
		if err := json.Unmarshal(body, &fields); err == nil {
			for _, key := range []string{"message", "error", "msg", "detail"} {
				if s, ok := fields[key].(string); ok && s != "" {
					return s
				}
			}
		}
	} else if len(body) > 0 && !bytes.HasPrefix(body, []byte("<")) {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxMessageLen {
			msg = msg[:maxMessageLen]
		}
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}
