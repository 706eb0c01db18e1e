package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx answer from the backend. It unwraps to one of the
// sentinel errors when the status code has a dedicated meaning, so callers
// can use errors.Is for classification and errors.As for the message.
type APIError struct {
	Method   string
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Endpoint, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	}
	return nil
}

// extractMessage pulls a human readable message out of an error body.
// DRF answers with {"detail": ...}, {"error": ...} or a field->[]string map.
func extractMessage(body []byte) string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return ""
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return string(body)
	}

	for _, k := range []string{"detail", "error", "message"} {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}

	parts := make([]string, 0, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s: %s", k, val))
		case []any:
			msgs := make([]string, 0, len(val))
			for _, m := range val {
				msgs = append(msgs, fmt.Sprint(m))
			}
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(msgs, " ")))
		}
	}
	if len(parts) == 0 {
		return string(body)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// UserMessage returns the server-provided message carried by err, or
// fallback when there is none.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
