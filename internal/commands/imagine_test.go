package commands

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/models"
)

var errTest = errors.New("test error")

func TestBatchSizes(t *testing.T) {
	tests := []struct {
		total int
		max   int
		want  []int
	}{
		{0, 4, nil},
		{-1, 4, nil},
		{1, 4, []int{1}},
		{4, 4, []int{4}},
		{5, 4, []int{4, 1}},
		{8, 4, []int{4, 4}},
		{10, 4, []int{4, 4, 2}},
	}

	for _, tt := range tests {
		got := batchSizes(tt.total, tt.max)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("batchSizes(%d, %d) = %v, want %v", tt.total, tt.max, got, tt.want)
		}
	}
}

func TestGenerateBatchedSingleCall(t *testing.T) {
	client := &api.MockGeminiClient{
		GenerateImagesVal: []models.GeneratedImage{
			{MIMEType: "image/png", Data: []byte("a")},
			{MIMEType: "image/png", Data: []byte("b")},
		},
	}

	images, err := generateBatched(client, "a cube", 2, "16:9", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 2 {
		t.Errorf("expected 2 images, got %d", len(images))
	}
	if client.GenerateImagesCalled != 1 {
		t.Errorf("expected a single API call, got %d", client.GenerateImagesCalled)
	}
	if client.LastImagineOpts.AspectRatio != "16:9" {
		t.Errorf("aspect ratio not forwarded, got %q", client.LastImagineOpts.AspectRatio)
	}
}

// countingClient wraps the mock with a thread-safe call counter for
// fan-out tests
type countingClient struct {
	*api.MockGeminiClient
	mu     sync.Mutex
	calls  int
	counts []int
}

func (c *countingClient) GenerateImages(prompt string, opts *api.ImagineOptions) ([]models.GeneratedImage, error) {
	c.mu.Lock()
	c.calls++
	c.counts = append(c.counts, opts.Count)
	c.mu.Unlock()

	images := make([]models.GeneratedImage, opts.Count)
	for i := range images {
		images[i] = models.GeneratedImage{MIMEType: "image/png", Data: []byte("x")}
	}
	return images, nil
}

func TestGenerateBatchedFansOut(t *testing.T) {
	client := &countingClient{MockGeminiClient: &api.MockGeminiClient{}}

	// 6 candidates with a max of 4 means two calls
	images, err := generateBatched(client, "a cube", 6, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("expected 2 batched calls, got %d", client.calls)
	}
	if len(images) != 6 {
		t.Errorf("expected 6 images back, got %d", len(images))
	}
}

func TestGenerateBatchedPropagatesError(t *testing.T) {
	client := &api.MockGeminiClient{
		GenerateImagesErr: errTest,
	}

	_, err := generateBatched(client, "a cube", 2, "", "")
	if err == nil {
		t.Error("expected error to propagate")
	}
}
