package completion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured is returned before any network call when the API key is missing.
	ErrNotConfigured = errors.New("completion backend not configured")
	// ErrTimeout is returned when the client timeout aborted the call.
	ErrTimeout = errors.New("completion request timed out")
	// ErrEmptyResponse is returned when the backend answered 2xx without any choice.
	ErrEmptyResponse = errors.New("empty response choices")
)

// ProviderError is returned when the backend responds with a non-2xx status.
// RawResponse holds the backend body as received and never includes the API key.
type ProviderError struct {
	StatusCode  int
	Message     string
	RawResponse []byte
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	return fmt.Sprintf("completion request failed: status %d: %s", e.StatusCode, e.Message)
}

// Payload returns the backend body decoded as JSON, or as plain text when it is not JSON.
func (e *ProviderError) Payload() any {
	if e == nil || len(e.RawResponse) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(e.RawResponse, &decoded); err == nil {
		return decoded
	}
	return strings.TrimSpace(string(e.RawResponse))
}

// providerMessage picks the most useful human text out of an error body.
// OpenAI-compatible backends answer {"error": {"message": "..."}}.
func providerMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(body))
}
