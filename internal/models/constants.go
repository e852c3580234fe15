// Package models contains data types and constants for the Gemini API.
package models

import (
	"fmt"
	"strconv"
)

// Endpoints for the Generative Language API
const (
	EndpointRoot   = "https://generativelanguage.googleapis.com"
	EndpointModels = EndpointRoot + "/v1beta/models"
	EndpointUpload = EndpointRoot + "/upload/v1beta/files"
)

// GenerateEndpoint returns the generateContent URL for a model.
func GenerateEndpoint(model string) string {
	return fmt.Sprintf("%s/%s:generateContent", EndpointModels, model)
}

// PredictEndpoint returns the predict URL for an image generation model.
func PredictEndpoint(model string) string {
	return fmt.Sprintf("%s/%s:predict", EndpointModels, model)
}

// FileEndpoint returns the metadata URL for an uploaded file resource
// name such as "files/abc123".
func FileEndpoint(name string) string {
	return EndpointRoot + "/v1beta/" + name
}

// Model represents an available Gemini model with its capabilities
type Model struct {
	Name     string // API model ID, e.g. "gemini-2.5-flash"
	Alias    string // short name used in commands, e.g. "fast"
	Thinking bool   // emits thought summaries when requested
	Vision   bool   // accepts image input parts
	ImageOut bool   // can return inline image parts
}

// Available models
var (
	// ModelUnspecified defers model choice to the client default
	ModelUnspecified = Model{
		Name: "unspecified",
	}

	ModelFast = Model{
		Name:     "gemini-2.5-flash",
		Alias:    "fast",
		Thinking: true,
		Vision:   true,
	}

	ModelPro = Model{
		Name:     "gemini-2.5-pro",
		Alias:    "pro",
		Thinking: true,
		Vision:   true,
	}

	ModelImage = Model{
		Name:     "gemini-2.5-flash-image",
		Alias:    "image",
		Vision:   true,
		ImageOut: true,
	}

	// DefaultModel is the recommended default for chat
	DefaultModel = ModelFast
)

// ImagenModel is the dedicated text-to-image model served via :predict.
// It does not appear in AllModels because it cannot hold a conversation.
const ImagenModel = "imagen-4.0-generate-001"

// Image generation limits for the predict endpoint
const (
	DefaultImageCount = 2
	MaxImageCount     = 4
)

// AspectRatios supported by the predict endpoint
var AspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}

// DefaultAspectRatio matches the 16:9 viewport of the scene preview
const DefaultAspectRatio = "16:9"

// ValidAspectRatio reports whether ratio is accepted by the API
func ValidAspectRatio(ratio string) bool {
	for _, r := range AspectRatios {
		if r == ratio {
			return true
		}
	}
	return false
}

// AllModels returns a list of all available chat models
func AllModels() []Model {
	return []Model{ModelFast, ModelPro, ModelImage}
}

// ModelFromName returns a Model by its API name or alias
func ModelFromName(name string) Model {
	for _, m := range AllModels() {
		if name == m.Name || name == m.Alias {
			return m
		}
	}
	return ModelUnspecified
}

// IsUnspecified reports whether the model defers to the client default
func (m Model) IsUnspecified() bool {
	return m.Name == "" || m.Name == ModelUnspecified.Name
}

// DefaultHeaders returns the default headers for API requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":    "application/json",
		"Accept":          "application/json",
		"Accept-Language": "en-US,en;q=0.9",
		"Accept-Encoding": "gzip, deflate, br, zstd",
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	}
}

// UploadStartHeaders returns headers that open a resumable file upload
func UploadStartHeaders(mimeType string, size int64) map[string]string {
	return map[string]string{
		"Content-Type":                        "application/json",
		"X-Goog-Upload-Protocol":              "resumable",
		"X-Goog-Upload-Command":               "start",
		"X-Goog-Upload-Header-Content-Type":   mimeType,
		"X-Goog-Upload-Header-Content-Length": strconv.FormatInt(size, 10),
	}
}

// UploadFinalizeHeaders returns headers that send the bytes and close the upload
func UploadFinalizeHeaders(size int64) map[string]string {
	return map[string]string{
		"X-Goog-Upload-Command": "upload, finalize",
		"X-Goog-Upload-Offset":  "0",
		"Content-Length":        strconv.FormatInt(size, 10),
	}
}
