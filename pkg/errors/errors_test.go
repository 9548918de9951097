package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "resource not found"},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantTitle  string
		wantStatus int
	}{
		{"not found", NotFound("Accommodation"), CodeNotFound, TitleNotFound, http.StatusNotFound},
		{"validation", Validation("bad record", nil), CodeValidation, TitleValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("missing query"), CodeInvalidInput, TitleInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("slug taken"), CodeConflict, TitleConflict, http.StatusConflict},
		{"internal", Internal("oops", cause), CodeInternal, TitleInternal, http.StatusInternalServerError},
		{"timeout", Timeout("too slow", cause), CodeTimeout, TitleTimeout, http.StatusRequestTimeout},
		{"unavailable", Unavailable("Catalog"), CodeUnavailable, TitleUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited("slow down", 60), CodeRateLimited, TitleRateLimited, http.StatusTooManyRequests},
		{"daily limit", DailyLimitExceeded("tomorrow", 3600), CodeDailyLimit, TitleDailyLimit, http.StatusTooManyRequests},
		{"not configured", NotConfigured("no key"), CodeNotConfigured, TitleNotConfigured, http.StatusInternalServerError},
		{"upstream 503", Upstream(http.StatusServiceUnavailable, "backend down", nil, nil), CodeUpstream, TitleUpstream, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.Title != tt.wantTitle {
				t.Errorf("Title = %s, want %s", tt.err.Title, tt.wantTitle)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Accommodation", "12345")

	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Accommodation" {
		t.Errorf("expected resource 'Accommodation', got %v", err.Details["resource"])
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	if got := RateLimited("wait", 120).RetryAfterSeconds(); got != 120 {
		t.Errorf("RetryAfterSeconds() = %d, want 120", got)
	}
	if got := InvalidInput("x").RetryAfterSeconds(); got != 0 {
		t.Errorf("RetryAfterSeconds() = %d, want 0", got)
	}
}

func TestUpstream(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		payload    any
		wantStatus int
		wantDetail bool
	}{
		{name: "client error passes through", status: 401, payload: map[string]any{"error": "bad key"}, wantStatus: 401, wantDetail: true},
		{name: "server error passes through", status: 500, payload: "upstream exploded", wantStatus: 500, wantDetail: true},
		{name: "non error status becomes bad gateway", status: 302, wantStatus: http.StatusBadGateway},
		{name: "zero status becomes bad gateway", status: 0, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Upstream(tt.status, "upstream failed", tt.payload, nil)
			if err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), tt.wantStatus)
			}
			_, hasDetail := err.Details[DetailUpstreamBody]
			if hasDetail != tt.wantDetail {
				t.Errorf("details present = %v, want %v", hasDetail, tt.wantDetail)
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Accommodation")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("layer: %w", appErr)
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should find a wrapped AppError")
	}
	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see through wrapping")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
	if result.Message != MsgUnexpected {
		t.Errorf("AsAppError() message = %q, want %q", result.Message, MsgUnexpected)
	}
	if IsAppError(regularErr) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	raw := RateLimited("Hai raggiunto il limite di richieste. Riprova tra 3 minuti.", 180).ToJSON()

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", err)
	}
	if body["error"] != TitleRateLimited {
		t.Errorf("error = %v, want %q", body["error"], TitleRateLimited)
	}
	if body["code"] != CodeRateLimited {
		t.Errorf("code = %v, want %q", body["code"], CodeRateLimited)
	}
	if !strings.Contains(body["message"].(string), "3 minuti") {
		t.Errorf("message = %v, want minutes hint", body["message"])
	}
}

func TestAppError_ResponseDefaultsTitle(t *testing.T) {
	resp := New("CUSTOM", "custom failure", http.StatusTeapot).Response()
	if resp.Error != http.StatusText(http.StatusTeapot) {
		t.Errorf("Error = %q, want status text", resp.Error)
	}
}
