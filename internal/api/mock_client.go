package api

import (
	"github.com/diogo/geministudio/internal/models"
)

// MockGeminiClient is a mock implementation of GeminiClientInterface for testing
type MockGeminiClient struct {
	// Mock return values
	InitErr            error
	Model              models.Model
	ImageModel         string
	IsClosedVal        bool
	ChatSession        *ChatSession
	GenerateContentVal *models.ModelOutput
	GenerateContentErr error
	GenerateImagesVal  []models.GeneratedImage
	GenerateImagesErr  error
	EditImageVal       *models.ModelOutput
	EditImageErr       error
	UploadFileVal      *UploadedFile
	UploadFileErr      error
	SaveImageVal       string
	SaveImageErr       error
	SaveImagesVal      []string
	SaveImagesErr      error
	FetchImageVal      *models.GeneratedImage
	FetchImageErr      error

	// Call counters/recorders
	InitCalled            bool
	CloseCalled           bool
	GenerateContentCalled int
	GenerateImagesCalled  int
	EditImageCalled       int
	UploadFileCalled      int
	LastPrompt            string
	LastGenerateOpts      *GenerateOptions
	LastImagineOpts       *ImagineOptions
	LastEditInstruction   string
	LastEditPath          string
	LastUploadPath        string
	LastSavedImages       []models.GeneratedImage
}

// Ensure MockGeminiClient implements GeminiClientInterface
var _ GeminiClientInterface = (*MockGeminiClient)(nil)

func (m *MockGeminiClient) Init() error {
	m.InitCalled = true
	return m.InitErr
}

func (m *MockGeminiClient) Close() {
	m.CloseCalled = true
}

func (m *MockGeminiClient) GetModel() models.Model {
	return m.Model
}

func (m *MockGeminiClient) SetModel(model models.Model) {
	m.Model = model
}

func (m *MockGeminiClient) GetImageModel() string {
	return m.ImageModel
}

func (m *MockGeminiClient) SetImageModel(name string) {
	m.ImageModel = name
}

func (m *MockGeminiClient) IsClosed() bool {
	return m.IsClosedVal
}

func (m *MockGeminiClient) StartChat(model ...models.Model) *ChatSession {
	if m.ChatSession != nil {
		return m.ChatSession
	}

	mdl := m.Model
	if len(model) > 0 {
		mdl = model[0]
	}
	return &ChatSession{client: m, model: mdl}
}

func (m *MockGeminiClient) StartChatWithOptions(opts ...ChatOption) *ChatSession {
	if m.ChatSession != nil {
		return m.ChatSession
	}

	s := &ChatSession{client: m, model: m.Model}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (m *MockGeminiClient) GenerateContent(prompt string, opts *GenerateOptions) (*models.ModelOutput, error) {
	m.GenerateContentCalled++
	m.LastPrompt = prompt
	m.LastGenerateOpts = opts
	return m.GenerateContentVal, m.GenerateContentErr
}

func (m *MockGeminiClient) GenerateImages(prompt string, opts *ImagineOptions) ([]models.GeneratedImage, error) {
	m.GenerateImagesCalled++
	m.LastPrompt = prompt
	m.LastImagineOpts = opts
	return m.GenerateImagesVal, m.GenerateImagesErr
}

func (m *MockGeminiClient) EditImage(instruction, imagePath string, opts *EditOptions) (*models.ModelOutput, error) {
	m.EditImageCalled++
	m.LastEditInstruction = instruction
	m.LastEditPath = imagePath
	return m.EditImageVal, m.EditImageErr
}

func (m *MockGeminiClient) UploadFile(filePath string) (*UploadedFile, error) {
	m.UploadFileCalled++
	m.LastUploadPath = filePath
	return m.UploadFileVal, m.UploadFileErr
}

func (m *MockGeminiClient) UploadData(data []byte, fileName, mimeType string) (*UploadedFile, error) {
	return m.UploadFileVal, m.UploadFileErr
}

func (m *MockGeminiClient) SaveImage(img models.GeneratedImage, opts SaveOptions) (string, error) {
	m.LastSavedImages = append(m.LastSavedImages, img)
	return m.SaveImageVal, m.SaveImageErr
}

func (m *MockGeminiClient) SaveImages(images []models.GeneratedImage, opts SaveOptions) ([]string, error) {
	m.LastSavedImages = append(m.LastSavedImages, images...)
	return m.SaveImagesVal, m.SaveImagesErr
}

func (m *MockGeminiClient) FetchImage(uri string) (*models.GeneratedImage, error) {
	return m.FetchImageVal, m.FetchImageErr
}
