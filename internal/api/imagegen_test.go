package api

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/models"
)

func TestGenerateImages(t *testing.T) {
	successBody := `{"predictions":[{"bytesBase64Encoded":"aGVsbG8=","mimeType":"image/png"},{"bytesBase64Encoded":"d29ybGQ="}]}`

	tests := []struct {
		name      string
		prompt    string
		opts      *ImagineOptions
		setupMock func(*MockHttpClient)
		closed    bool
		wantErr   bool
		errIs     func(error) bool
		wantCount int
	}{
		{
			name:      "empty prompt",
			prompt:    "",
			setupMock: func(m *MockHttpClient) {},
			wantErr:   true,
		},
		{
			name:      "client closed",
			prompt:    "a cube",
			setupMock: func(m *MockHttpClient) {},
			closed:    true,
			wantErr:   true,
		},
		{
			name:      "invalid aspect ratio",
			prompt:    "a cube",
			opts:      &ImagineOptions{AspectRatio: "2:1"},
			setupMock: func(m *MockHttpClient) {},
			wantErr:   true,
		},
		{
			name:   "network error",
			prompt: "a cube",
			setupMock: func(m *MockHttpClient) {
				m.Err = errors.New("connection refused")
			},
			wantErr: true,
			errIs:   apierrors.IsNetworkError,
		},
		{
			name:   "filtered prompt returns no content",
			prompt: "a cube",
			setupMock: func(m *MockHttpClient) {
				m.Response = jsonResponse(200, `{}`)
			},
			wantErr: true,
			errIs:   func(err error) bool { return errors.Is(err, apierrors.ErrNoContent) },
		},
		{
			name:   "empty prediction list",
			prompt: "a cube",
			setupMock: func(m *MockHttpClient) {
				m.Response = jsonResponse(200, `{"predictions":[]}`)
			},
			wantErr: true,
			errIs:   func(err error) bool { return errors.Is(err, apierrors.ErrNoContent) },
		},
		{
			name:   "quota exhausted",
			prompt: "a cube",
			setupMock: func(m *MockHttpClient) {
				m.Response = jsonResponse(429, `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"quota"}}`)
			},
			wantErr: true,
			errIs:   apierrors.IsRateLimitError,
		},
		{
			name:   "successful generation",
			prompt: "a spinning cube on a desk",
			setupMock: func(m *MockHttpClient) {
				m.Response = jsonResponse(200, successBody)
			},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockHttpClient{}
			tt.setupMock(mock)

			client := newTestClient(t, mock)
			if tt.closed {
				client.Close()
			}

			got, err := client.GenerateImages(tt.prompt, tt.opts)

			if tt.wantErr {
				if err == nil {
					t.Fatal("GenerateImages() expected error but got none")
				}
				if tt.errIs != nil && !tt.errIs(err) {
					t.Errorf("error %T does not match expected kind: %v", err, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("GenerateImages() unexpected error: %v", err)
			}
			if len(got) != tt.wantCount {
				t.Errorf("got %d images, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestGenerateImagesRequest(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"predictions":[{"bytesBase64Encoded":"aGVsbG8="}]}`), 200)
	client := newTestClient(t, mock)

	_, err := client.GenerateImages("sunset over mountains", &ImagineOptions{
		Count:          10, // above the API maximum, must be clamped
		AspectRatio:    "9:16",
		NegativePrompt: "text, watermark",
	})
	if err != nil {
		t.Fatalf("GenerateImages() unexpected error: %v", err)
	}

	if len(mock.Requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mock.Requests))
	}
	req := mock.Requests[0]

	if !strings.Contains(req.URL.String(), models.ImagenModel) {
		t.Errorf("request URL %s does not target %s", req.URL, models.ImagenModel)
	}
	if !strings.Contains(req.URL.Path, ":predict") {
		t.Errorf("request URL %s is not a predict call", req.URL)
	}

	body, _ := io.ReadAll(req.Body)
	parsed := gjson.ParseBytes(body)

	if got := parsed.Get("instances.0.prompt").String(); got != "sunset over mountains" {
		t.Errorf("prompt = %q", got)
	}
	if got := parsed.Get("parameters.sampleCount").Int(); got != int64(models.MaxImageCount) {
		t.Errorf("sampleCount = %d, want clamp to %d", got, models.MaxImageCount)
	}
	if got := parsed.Get("parameters.aspectRatio").String(); got != "9:16" {
		t.Errorf("aspectRatio = %q", got)
	}
	if got := parsed.Get("parameters.negativePrompt").String(); got != "text, watermark" {
		t.Errorf("negativePrompt = %q", got)
	}
}

func TestGenerateImagesDefaults(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"predictions":[{"bytesBase64Encoded":"aGVsbG8="}]}`), 200)
	client := newTestClient(t, mock)

	if _, err := client.GenerateImages("a cube", nil); err != nil {
		t.Fatalf("GenerateImages() unexpected error: %v", err)
	}

	body, _ := io.ReadAll(mock.Requests[0].Body)
	parsed := gjson.ParseBytes(body)

	if got := parsed.Get("parameters.sampleCount").Int(); got != int64(models.DefaultImageCount) {
		t.Errorf("sampleCount = %d, want default %d", got, models.DefaultImageCount)
	}
	if got := parsed.Get("parameters.aspectRatio").String(); got != models.DefaultAspectRatio {
		t.Errorf("aspectRatio = %q, want default %q", got, models.DefaultAspectRatio)
	}
	if parsed.Get("parameters.negativePrompt").Exists() {
		t.Error("negativePrompt should be omitted when unset")
	}
}

func TestParsePredictResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantMIME string
	}{
		{
			name:    "invalid JSON",
			body:    "<html>gateway timeout</html>",
			wantErr: true,
		},
		{
			name:    "error envelope",
			body:    `{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"bad aspect ratio"}}`,
			wantErr: true,
		},
		{
			name:    "predictions with no data",
			body:    `{"predictions":[{"mimeType":"image/png"}]}`,
			wantErr: true,
		},
		{
			name:     "mime type defaults to png",
			body:     `{"predictions":[{"bytesBase64Encoded":"aGVsbG8="}]}`,
			wantMIME: "image/png",
		},
		{
			name:     "explicit mime type",
			body:     `{"predictions":[{"bytesBase64Encoded":"aGVsbG8=","mimeType":"image/jpeg"}]}`,
			wantMIME: "image/jpeg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePredictResponse([]byte(tt.body))

			if tt.wantErr {
				if err == nil {
					t.Fatal("parsePredictResponse() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("parsePredictResponse() unexpected error: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 image, got %d", len(got))
			}
			if got[0].MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %s, want %s", got[0].MIMEType, tt.wantMIME)
			}
			if string(got[0].Data) != "hello" {
				t.Errorf("Data = %q, want hello", got[0].Data)
			}
		})
	}
}
