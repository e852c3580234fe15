package api_test

import (
	"testing"

	"github.com/diogo/geministudio/internal/api"
	"github.com/diogo/geministudio/internal/models"
)

func TestMockGeminiClient(t *testing.T) {
	mock := &api.MockGeminiClient{
		GenerateContentVal: &models.ModelOutput{
			Candidates: []models.Candidate{
				{Text: "Mock response"},
			},
		},
	}

	// Verify interface compliance
	var client api.GeminiClientInterface = mock

	// Test StartChat
	session := client.StartChat()
	if session == nil {
		t.Fatal("StartChat returned nil")
	}

	// Test SendMessage (which calls GenerateContent on the mock)
	resp, err := session.SendMessage("Hello", nil)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if resp.Text() != "Mock response" {
		t.Errorf("Expected 'Mock response', got '%s'", resp.Text())
	}

	if mock.GenerateContentCalled != 1 {
		t.Errorf("GenerateContent called %d times, want 1", mock.GenerateContentCalled)
	}

	if mock.LastPrompt != "Hello" {
		t.Errorf("Expected prompt 'Hello', got '%s'", mock.LastPrompt)
	}
}

func TestMockGeminiClientRecorders(t *testing.T) {
	mock := &api.MockGeminiClient{
		GenerateImagesVal: []models.GeneratedImage{{MIMEType: "image/png", Data: []byte("x")}},
		UploadFileVal:     &api.UploadedFile{URI: "files/abc"},
		SaveImagesVal:     []string{"/tmp/a.png"},
	}

	if _, err := mock.GenerateImages("a cube", &api.ImagineOptions{Count: 3}); err != nil {
		t.Fatal(err)
	}
	if mock.GenerateImagesCalled != 1 || mock.LastImagineOpts.Count != 3 {
		t.Errorf("imagine recorder = %d calls, opts %+v", mock.GenerateImagesCalled, mock.LastImagineOpts)
	}

	if _, err := mock.UploadFile("/tmp/shot.png"); err != nil {
		t.Fatal(err)
	}
	if mock.UploadFileCalled != 1 || mock.LastUploadPath != "/tmp/shot.png" {
		t.Errorf("upload recorder = %d calls, path %s", mock.UploadFileCalled, mock.LastUploadPath)
	}

	images := []models.GeneratedImage{{Data: []byte("y")}}
	if _, err := mock.SaveImages(images, api.SaveOptions{}); err != nil {
		t.Fatal(err)
	}
	if len(mock.LastSavedImages) != 1 {
		t.Errorf("save recorder captured %d images", len(mock.LastSavedImages))
	}

	mock.Close()
	if !mock.CloseCalled {
		t.Error("Close was not recorded")
	}
}
