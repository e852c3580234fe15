package models

import (
	"strings"
	"testing"
)

func TestAllModels(t *testing.T) {
	models := AllModels()

	if len(models) == 0 {
		t.Error("Expected at least one model")
	}

	// Check that all models have required fields
	for _, model := range models {
		if model.Name == "" {
			t.Error("Model name should not be empty")
		}
		if model.Alias == "" {
			t.Error("Model alias should not be empty")
		}
	}
}

func TestModelFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected Model
	}{
		// Aliases
		{"fast", ModelFast},
		{"pro", ModelPro},
		{"image", ModelImage},
		// Full API names
		{"gemini-2.5-flash", ModelFast},
		{"gemini-2.5-pro", ModelPro},
		{"gemini-2.5-flash-image", ModelImage},
		// Invalid models
		{"invalid-model", ModelUnspecified},
		{"", ModelUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := ModelFromName(tt.name)

			if model.Name != tt.expected.Name {
				t.Errorf("ModelFromName(%s) = %v, want %v", tt.name, model.Name, tt.expected.Name)
			}
		})
	}
}

func TestModelCapabilities(t *testing.T) {
	if !ModelPro.Thinking {
		t.Error("pro model should support thought summaries")
	}
	if !ModelImage.ImageOut {
		t.Error("image model should support inline image output")
	}
	if ModelFast.ImageOut {
		t.Error("fast model should not claim image output")
	}
	if !ModelUnspecified.IsUnspecified() {
		t.Error("ModelUnspecified.IsUnspecified() should be true")
	}
	if DefaultModel.IsUnspecified() {
		t.Error("DefaultModel should be a concrete model")
	}
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			"generate",
			GenerateEndpoint("gemini-2.5-flash"),
			"https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent",
		},
		{
			"predict",
			PredictEndpoint(ImagenModel),
			"https://generativelanguage.googleapis.com/v1beta/models/imagen-4.0-generate-001:predict",
		},
		{
			"file",
			FileEndpoint("files/abc123"),
			"https://generativelanguage.googleapis.com/v1beta/files/abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("endpoint = %s, want %s", tt.got, tt.expected)
			}
		})
	}
}

func TestValidAspectRatio(t *testing.T) {
	for _, ratio := range AspectRatios {
		if !ValidAspectRatio(ratio) {
			t.Errorf("ValidAspectRatio(%s) = false, want true", ratio)
		}
	}

	invalid := []string{"2:1", "16:10", "", "wide"}
	for _, ratio := range invalid {
		if ValidAspectRatio(ratio) {
			t.Errorf("ValidAspectRatio(%s) = true, want false", ratio)
		}
	}

	if !ValidAspectRatio(DefaultAspectRatio) {
		t.Errorf("DefaultAspectRatio %s should be valid", DefaultAspectRatio)
	}
}

func TestDefaultHeaders(t *testing.T) {
	headers := DefaultHeaders()

	if len(headers) == 0 {
		t.Error("Expected at least one default header")
	}

	// Check for required headers
	requiredHeaders := []string{
		"User-Agent",
		"Content-Type",
		"Accept",
	}

	for _, required := range requiredHeaders {
		if _, exists := headers[required]; !exists {
			t.Errorf("Missing required header: %s", required)
		}
	}

	if headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", headers["Content-Type"])
	}
}

func TestUploadStartHeaders(t *testing.T) {
	headers := UploadStartHeaders("image/png", 2048)

	if headers["X-Goog-Upload-Protocol"] != "resumable" {
		t.Error("upload start should use the resumable protocol")
	}
	if headers["X-Goog-Upload-Command"] != "start" {
		t.Error("upload start should send the start command")
	}
	if headers["X-Goog-Upload-Header-Content-Type"] != "image/png" {
		t.Errorf("content type header = %s, want image/png", headers["X-Goog-Upload-Header-Content-Type"])
	}
	if headers["X-Goog-Upload-Header-Content-Length"] != "2048" {
		t.Errorf("content length header = %s, want 2048", headers["X-Goog-Upload-Header-Content-Length"])
	}
}

func TestUploadFinalizeHeaders(t *testing.T) {
	headers := UploadFinalizeHeaders(2048)

	if !strings.Contains(headers["X-Goog-Upload-Command"], "finalize") {
		t.Error("upload finalize should send the finalize command")
	}
	if headers["X-Goog-Upload-Offset"] != "0" {
		t.Errorf("upload offset = %s, want 0", headers["X-Goog-Upload-Offset"])
	}
}
