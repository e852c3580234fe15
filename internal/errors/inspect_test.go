package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"auth error", NewAuthError("bad key"), true},
		{"sentinel no key", fmt.Errorf("init: %w", ErrNoAPIKey), true},
		{"api 401", NewAPIError(401, "ep", "denied"), true},
		{"api 403", NewAPIError(403, "ep", "denied"), true},
		{"api with permission code", NewAPIError(400, "ep", "x").WithCode(ErrCodePermissionDenied), true},
		{"plain api 500", NewAPIError(500, "ep", "boom"), false},
		{"usage limit", NewUsageLimitError(""), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"usage limit", NewUsageLimitError("quota"), true},
		{"api 429", NewAPIError(429, "ep", "slow down"), true},
		{"api exhausted code", NewAPIError(400, "ep", "x").WithCode(ErrCodeUsageLimitExceeded), true},
		{"auth", NewAuthError(""), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	if got := GetHTTPStatus(NewAPIError(503, "ep", "down")); got != 503 {
		t.Errorf("GetHTTPStatus() = %d, want 503", got)
	}
	if got := GetHTTPStatus(NewDownloadErrorWithStatus("http://x", 404)); got != 404 {
		t.Errorf("GetHTTPStatus() = %d, want 404", got)
	}
	if got := GetHTTPStatus(errors.New("plain")); got != 0 {
		t.Errorf("GetHTTPStatus() = %d, want 0", got)
	}
}

func TestGetEndpointAndBody(t *testing.T) {
	apiErr := NewAPIErrorWithBody(400, "models:list", "bad", "body text")

	if got := GetEndpoint(apiErr); got != "models:list" {
		t.Errorf("GetEndpoint() = %s, want models:list", got)
	}
	if got := GetResponseBody(apiErr); got != "body text" {
		t.Errorf("GetResponseBody() = %s, want body text", got)
	}

	netErr := NewNetworkErrorWithEndpoint("fetch", "https://ep", errors.New("dial"))
	if got := GetEndpoint(netErr); got != "https://ep" {
		t.Errorf("GetEndpoint() = %s, want https://ep", got)
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"api with code", NewAPIError(500, "ep", "x").WithCode(ErrCodeInternal), ErrCodeInternal},
		{"blocked", NewBlockedError("SAFETY", ""), ErrCodeContentBlocked},
		{"usage", NewUsageLimitError(""), ErrCodeUsageLimitExceeded},
		{"auth", NewAuthError(""), ErrCodeAuthFailed},
		{"plain", errors.New("x"), ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.want {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		status     string
		check      func(error) bool
	}{
		{"401 becomes auth", 401, "UNAUTHENTICATED", IsAuthError},
		{"403 becomes auth", 403, "PERMISSION_DENIED", IsAuthError},
		{"429 becomes usage limit", 429, "RESOURCE_EXHAUSTED", IsRateLimitError},
		{"500 stays api error", 500, "INTERNAL", func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Code == ErrCodeInternal
		}},
		{"400 with exhausted status becomes usage limit", 400, "RESOURCE_EXHAUSTED", IsRateLimitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatusCode(tt.statusCode, "ep", tt.status, "msg", "")
			if !tt.check(err) {
				t.Errorf("FromStatusCode(%d, %s) = %v, classification failed", tt.statusCode, tt.status, err)
			}
		})
	}
}
