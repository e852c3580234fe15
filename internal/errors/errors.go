// Package errors provides custom error types for the Gemini API client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrNoAPIKey        = errors.New("no API key configured")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoContent       = errors.New("no content in response")
)

// ErrorCode classifies failures reported by the API's error payload
// ({"error":{"code":..,"status":..}}) and prompt feedback block reasons.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeAuthFailed
	ErrCodePermissionDenied
	ErrCodeNotFound
	ErrCodeUsageLimitExceeded
	ErrCodeContentBlocked
	ErrCodeInternal
	ErrCodeUnavailable
)

// String returns the API status string for the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case ErrCodeAuthFailed:
		return "UNAUTHENTICATED"
	case ErrCodePermissionDenied:
		return "PERMISSION_DENIED"
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodeUsageLimitExceeded:
		return "RESOURCE_EXHAUSTED"
	case ErrCodeContentBlocked:
		return "BLOCKED"
	case ErrCodeInternal:
		return "INTERNAL"
	case ErrCodeUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// CodeFromStatus maps the "status" field of an API error payload to an
// ErrorCode. Unrecognized statuses map to ErrCodeUnknown.
func CodeFromStatus(status string) ErrorCode {
	switch status {
	case "INVALID_ARGUMENT", "FAILED_PRECONDITION":
		return ErrCodeInvalidArgument
	case "UNAUTHENTICATED":
		return ErrCodeAuthFailed
	case "PERMISSION_DENIED":
		return ErrCodePermissionDenied
	case "NOT_FOUND":
		return ErrCodeNotFound
	case "RESOURCE_EXHAUSTED":
		return ErrCodeUsageLimitExceeded
	case "INTERNAL":
		return ErrCodeInternal
	case "UNAVAILABLE", "DEADLINE_EXCEEDED":
		return ErrCodeUnavailable
	default:
		return ErrCodeUnknown
	}
}

// AuthError represents an authentication failure (missing or invalid API key)
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: API key may be missing or invalid"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// APIError represents an API request failure
type APIError struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates an APIError that retains the response body
// for diagnostics.
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// WithCode attaches a classified ErrorCode and returns the same error.
func (e *APIError) WithCode(code ErrorCode) *APIError {
	e.Code = code
	return e
}

// NetworkError represents a transport-level failure before any response
type NetworkError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s (%s): %v", e.Op, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkErrorWithEndpoint creates a NetworkError tagged with the endpoint
func NewNetworkErrorWithEndpoint(op, endpoint string, err error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// UsageLimitError represents a quota or rate limit error (HTTP 429)
type UsageLimitError struct {
	Message string
}

func (e *UsageLimitError) Error() string {
	if e.Message == "" {
		return "usage limit exceeded"
	}
	return fmt.Sprintf("usage limit exceeded: %s", e.Message)
}

// NewUsageLimitError creates a new UsageLimitError
func NewUsageLimitError(message string) *UsageLimitError {
	return &UsageLimitError{Message: message}
}

// BlockedError represents content blocked by safety filters
type BlockedError struct {
	Reason  string // block reason reported by the API (SAFETY, IMAGE_SAFETY, ...)
	Message string
}

func (e *BlockedError) Error() string {
	switch {
	case e.Reason != "" && e.Message != "":
		return fmt.Sprintf("content blocked (%s): %s", e.Reason, e.Message)
	case e.Reason != "":
		return fmt.Sprintf("content blocked (%s)", e.Reason)
	case e.Message != "":
		return fmt.Sprintf("content blocked: %s", e.Message)
	default:
		return "content blocked"
	}
}

// NewBlockedError creates a new BlockedError
func NewBlockedError(reason, message string) *BlockedError {
	return &BlockedError{Reason: reason, Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// UploadError represents a File API upload failure
type UploadError struct {
	Message  string
	FileName string
}

func (e *UploadError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("upload failed for %s: %s", e.FileName, e.Message)
	}
	return fmt.Sprintf("upload failed: %s", e.Message)
}

// NewUploadError creates a new UploadError
func NewUploadError(message, fileName string) *UploadError {
	return &UploadError{Message: message, FileName: fileName}
}

// DownloadError represents a failure saving or fetching an image
type DownloadError struct {
	Message    string
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("download failed [%d]: %s", e.StatusCode, e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("download failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("download failed: %s", e.Message)
}

// Unwrap exposes the underlying error, if any
func (e *DownloadError) Unwrap() error {
	return e.Err
}

// NewDownloadError creates a new DownloadError
func NewDownloadError(message, url string) *DownloadError {
	return &DownloadError{Message: message, URL: url}
}

// NewDownloadErrorWithStatus creates a DownloadError for an HTTP status
func NewDownloadErrorWithStatus(url string, status int) *DownloadError {
	return &DownloadError{URL: url, StatusCode: status}
}

// NewDownloadNetworkError wraps a transport error from an image fetch
func NewDownloadNetworkError(url string, err error) *DownloadError {
	return &DownloadError{Message: "request failed", URL: url, Err: err}
}
