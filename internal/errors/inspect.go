package errors

import "errors"

// Inspection helpers used by command and TUI error formatting. They walk
// wrapped error chains, so callers can pass errors decorated with %w.

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}
	if errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrNoAPIKey) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403 ||
			apiErr.Code == ErrCodeAuthFailed || apiErr.Code == ErrCodePermissionDenied
	}
	return false
}

// IsRateLimitError reports whether err is a quota or rate limit failure
func IsRateLimitError(err error) bool {
	var limitErr *UsageLimitError
	if errors.As(err, &limitErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.Code == ErrCodeUsageLimitExceeded
	}
	return false
}

// IsNetworkError reports whether err is a transport-level failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	var toErr *TimeoutError
	return errors.As(err, &toErr)
}

// IsBlockedError reports whether err is a safety block
func IsBlockedError(err error) bool {
	var blockErr *BlockedError
	return errors.As(err, &blockErr)
}

// IsUploadError reports whether err is a File API upload failure
func IsUploadError(err error) bool {
	var upErr *UploadError
	return errors.As(err, &upErr)
}

// IsDownloadError reports whether err is an image save/fetch failure
func IsDownloadError(err error) bool {
	var dlErr *DownloadError
	return errors.As(err, &dlErr)
}

// GetHTTPStatus extracts an HTTP status code from err, or 0 if none
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var dlErr *DownloadError
	if errors.As(err, &dlErr) {
		return dlErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint associated with err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody extracts the retained response body from err, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// GetErrorCode extracts the classified ErrorCode from err
func GetErrorCode(err error) ErrorCode {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code != ErrCodeUnknown {
		return apiErr.Code
	}
	var blockErr *BlockedError
	if errors.As(err, &blockErr) {
		return ErrCodeContentBlocked
	}
	var limitErr *UsageLimitError
	if errors.As(err, &limitErr) {
		return ErrCodeUsageLimitExceeded
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return ErrCodeAuthFailed
	}
	return ErrCodeUnknown
}

// FromStatusCode converts an HTTP failure into the most specific error
// type for the endpoint. The body is kept for diagnostics and scanned by
// the caller for an API status string.
func FromStatusCode(statusCode int, endpoint, status, message, body string) error {
	code := CodeFromStatus(status)
	switch {
	case statusCode == 401 || statusCode == 403 || code == ErrCodeAuthFailed || code == ErrCodePermissionDenied:
		if message == "" {
			message = "API key rejected"
		}
		return NewAuthError(message)
	case statusCode == 429 || code == ErrCodeUsageLimitExceeded:
		return NewUsageLimitError(message)
	default:
		apiErr := NewAPIErrorWithBody(statusCode, endpoint, message, body)
		return apiErr.WithCode(code)
	}
}
