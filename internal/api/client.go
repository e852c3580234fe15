package api

import (
	"fmt"
	"io"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/patrickmn/go-cache"
	"github.com/tidwall/gjson"

	"github.com/diogo/geministudio/internal/config"
	apierrors "github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/models"
)

// GeminiClientInterface abstracts the client so the TUI and commands can
// take a test double.
type GeminiClientInterface interface {
	Init() error
	Close()
	GetModel() models.Model
	SetModel(model models.Model)
	GetImageModel() string
	SetImageModel(name string)
	IsClosed() bool
	StartChat(model ...models.Model) *ChatSession
	StartChatWithOptions(opts ...ChatOption) *ChatSession
	GenerateContent(prompt string, opts *GenerateOptions) (*models.ModelOutput, error)
	GenerateImages(prompt string, opts *ImagineOptions) ([]models.GeneratedImage, error)
	EditImage(instruction, imagePath string, opts *EditOptions) (*models.ModelOutput, error)
	UploadFile(filePath string) (*UploadedFile, error)
	UploadData(data []byte, fileName, mimeType string) (*UploadedFile, error)
	SaveImage(img models.GeneratedImage, opts SaveOptions) (string, error)
	SaveImages(images []models.GeneratedImage, opts SaveOptions) ([]string, error)
	FetchImage(uri string) (*models.GeneratedImage, error)
}

// GeminiClient is the main client for the Generative Language API
type GeminiClient struct {
	httpClient     tls_client.HttpClient
	creds          *config.Credentials
	model          models.Model
	imageModel     string
	uploads        *cache.Cache // content hash -> *UploadedFile
	timeoutSeconds int
	mu             sync.RWMutex
	closed         bool
}

var _ GeminiClientInterface = (*GeminiClient)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the default chat model for the client
func WithModel(model models.Model) ClientOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// WithImageModel sets the text-to-image model used by GenerateImages
func WithImageModel(name string) ClientOption {
	return func(c *GeminiClient) {
		c.imageModel = name
	}
}

// WithTimeout sets the request budget for every API call
func WithTimeout(d time.Duration) ClientOption {
	return func(c *GeminiClient) {
		c.timeoutSeconds = int(d.Seconds())
	}
}

// WithHTTPClient injects an HTTP client, replacing the default TLS client.
// Used by tests.
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new GeminiClient
func NewClient(creds *config.Credentials, opts ...ClientOption) (*GeminiClient, error) {
	if err := config.ValidateCredentials(creds); err != nil {
		return nil, err
	}

	client := &GeminiClient{
		creds:          creds,
		model:          models.DefaultModel,
		imageModel:     models.ImagenModel,
		uploads:        cache.New(uploadCacheTTL, uploadCacheSweep),
		timeoutSeconds: 300,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Init validates the API key with a cheap model-list call
func (c *GeminiClient) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client is closed")
	}

	req, err := c.newJSONRequest(fhttp.MethodGet, models.EndpointModels+"?pageSize=1", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierrors.NewNetworkErrorWithEndpoint("validate key", models.EndpointModels, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return errorFromResponse(resp, models.EndpointModels)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if !gjson.GetBytes(body, PathModels).Exists() {
		return apierrors.NewParseError("model list missing from response", PathModels)
	}

	return nil
}

// Close shuts down the client
func (c *GeminiClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// GetCredentials returns the client's credentials
func (c *GeminiClient) GetCredentials() *config.Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// GetHTTPClient returns the underlying HTTP client
func (c *GeminiClient) GetHTTPClient() tls_client.HttpClient {
	return c.httpClient
}

// GetModel returns the default chat model
func (c *GeminiClient) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the default chat model
func (c *GeminiClient) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// GetImageModel returns the text-to-image model name
func (c *GeminiClient) GetImageModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.imageModel
}

// SetImageModel sets the text-to-image model name
func (c *GeminiClient) SetImageModel(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageModel = name
}

// IsClosed returns whether the client is closed
func (c *GeminiClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// StartChat creates a new chat session
func (c *GeminiClient) StartChat(model ...models.Model) *ChatSession {
	m := c.GetModel()
	if len(model) > 0 {
		m = model[0]
	}

	return &ChatSession{
		client: c,
		model:  m,
	}
}

// StartChatWithOptions creates a chat session configured by options
func (c *GeminiClient) StartChatWithOptions(opts ...ChatOption) *ChatSession {
	s := &ChatSession{
		client: c,
		model:  c.GetModel(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newJSONRequest builds a request carrying the default headers and the
// API key.
func (c *GeminiClient) newJSONRequest(method, url string, body io.Reader) (*fhttp.Request, error) {
	req, err := fhttp.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("x-goog-api-key", c.creds.Get())

	return req, nil
}

// maxErrorBody caps how much of an error response is retained for
// diagnostics.
const maxErrorBody = 4096

// errorFromResponse converts a non-200 response into a typed error,
// scanning the body for the API's error envelope.
func errorFromResponse(resp *fhttp.Response, endpoint string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	status := gjson.GetBytes(body, PathErrorStatus).String()
	message := gjson.GetBytes(body, PathErrorMessage).String()

	return apierrors.FromStatusCode(resp.StatusCode, endpoint, status, message, string(body))
}
