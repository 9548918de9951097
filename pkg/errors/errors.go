package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeValidation     = "VALIDATION_ERROR"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
	CodeTimeout        = "TIMEOUT"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeRateLimited    = "RATE_LIMITED"
	CodeDailyLimit     = "DAILY_LIMIT_EXCEEDED"
	CodeNotConfigured  = "NOT_CONFIGURED"
	CodeUpstream       = "UPSTREAM_ERROR"
	DetailRetryAfter   = "retry_after_seconds"
	DetailUpstreamBody = "upstream"
)

// MsgUnexpected answers any failure that was not mapped to an AppError.
const MsgUnexpected = "Si è verificato un errore imprevisto. Riprova più tardi."

// Titles are the short machine-readable labels written in the "error" field.
const (
	TitleNotFound      = "Not found"
	TitleValidation    = "Validation failed"
	TitleConflict      = "Conflict"
	TitleInternal      = "Internal server error"
	TitleTimeout       = "Request timeout"
	TitleUnavailable   = "Service unavailable"
	TitleInvalidInput  = "Invalid request"
	TitleRateLimited   = "Rate limit exceeded"
	TitleDailyLimit    = "Daily limit exceeded"
	TitleNotConfigured = "AI service not configured"
	TitleUpstream      = "Upstream error"
)

type AppError struct {
	Code       string         `json:"code"`
	Title      string         `json:"error"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(e.Response())
	return data
}

// Response is the wire body for the error.
func (e *AppError) Response() ErrorResponse {
	title := e.Title
	if title == "" {
		title = http.StatusText(e.StatusCode())
	}
	return ErrorResponse{
		Error:   title,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithTitle(title string) *AppError {
	e.Title = title
	return e
}

// RetryAfterSeconds returns the back-off hint attached by RateLimited and
// DailyLimitExceeded, or zero.
func (e *AppError) RetryAfterSeconds() int {
	if e.Details == nil {
		return 0
	}
	if v, ok := e.Details[DetailRetryAfter].(int); ok {
		return v
	}
	return 0
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Title:      TitleNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Title:      TitleNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Title:      TitleValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Title:      TitleInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Title:      TitleConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Title:      TitleInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Timeout reports that a downstream call took too long. Callers may retry later.
func Timeout(message string, err error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Title:      TitleTimeout,
		Message:    message,
		HTTPStatus: http.StatusRequestTimeout,
		Err:        err,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Title:      TitleUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// RateLimited rejects a caller that used up its window.
func RateLimited(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Title:      TitleRateLimited,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
		Details: map[string]any{
			DetailRetryAfter: retryAfterSeconds,
		},
	}
}

// DailyLimitExceeded rejects every caller once the process-wide daily budget is spent.
func DailyLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeDailyLimit,
		Title:      TitleDailyLimit,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
		Details: map[string]any{
			DetailRetryAfter: retryAfterSeconds,
		},
	}
}

func NotConfigured(message string) *AppError {
	return &AppError{
		Code:       CodeNotConfigured,
		Title:      TitleNotConfigured,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Upstream relays a non-2xx answer from a backend. The backend status becomes
// the response status; anything outside 4xx/5xx is reported as 502.
func Upstream(status int, message string, payload any, err error) *AppError {
	if status < http.StatusBadRequest || status > 599 {
		status = http.StatusBadGateway
	}
	appErr := &AppError{
		Code:       CodeUpstream,
		Title:      TitleUpstream,
		Message:    message,
		HTTPStatus: status,
		Err:        err,
	}
	if payload != nil {
		appErr.Details = map[string]any{DetailUpstreamBody: payload}
	}
	return appErr
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(MsgUnexpected, err)
}
