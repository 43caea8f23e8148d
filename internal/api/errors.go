package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport wraps every failure to reach the server or read its reply.
var ErrTransport = errors.New("api: transport failure")

// StatusError is a non-2xx response. Message is what the UI shows.
type StatusError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// newStatusError prefers a known JSON message field and falls back to the raw body.
func newStatusError(code int, body []byte) *StatusError {
	raw := strings.TrimSpace(string(body))
	msg := messageFrom(body, raw)
	if msg == "" {
		msg = http.StatusText(code)
	}
	return &StatusError{StatusCode: code, Body: raw, Message: msg}
}

var messageKeys = []string{"mensaje", "error", "message", "detail"}

func messageFrom(body []byte, fallback string) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return fallback
	}
	for _, k := range messageKeys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return fallback
}

// AsStatus unwraps a *StatusError.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
