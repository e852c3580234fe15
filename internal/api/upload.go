package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/models"
)

const (
	// MaxUploadSize caps attachments at 20MB
	MaxUploadSize = 20 * 1024 * 1024

	// The File API keeps uploads for 48 hours; cached URIs expire a
	// little earlier so a stale entry is never handed out.
	uploadCacheTTL   = 47 * time.Hour
	uploadCacheSweep = time.Hour
)

// SupportedImageTypes returns the MIME types accepted for attachments
func SupportedImageTypes() []string {
	return []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	}
}

// UploadedFile references a file stored by the File API
type UploadedFile struct {
	URI         string // file_uri used in generate requests
	Name        string // resource name, e.g. "files/abc123"
	DisplayName string
	MIMEType    string
	Size        int64
}

// UploadFile uploads an image file from disk. Re-uploading identical
// content within the File API's lifetime returns the cached reference.
func (c *GeminiClient) UploadFile(filePath string) (*UploadedFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if fileInfo.Size() > MaxUploadSize {
		return nil, fmt.Errorf("file size exceeds maximum %d bytes", MaxUploadSize)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(filePath))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if !isSupportedImageType(mimeType) {
		return nil, fmt.Errorf("unsupported image type: %s", mimeType)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return c.UploadData(data, filepath.Base(filePath), mimeType)
}

// UploadData uploads raw bytes through the File API's resumable
// protocol: a start request announcing the size, then a single body
// write that finalizes the upload.
func (c *GeminiClient) UploadData(data []byte, fileName, mimeType string) (*UploadedFile, error) {
	if int64(len(data)) > MaxUploadSize {
		return nil, fmt.Errorf("data size exceeds maximum %d bytes", MaxUploadSize)
	}
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	key := contentHash(data)
	if cached, ok := c.uploads.Get(key); ok {
		return cached.(*UploadedFile), nil
	}

	uploadURL, err := c.startUpload(fileName, mimeType, int64(len(data)))
	if err != nil {
		return nil, err
	}

	uploaded, err := c.finalizeUpload(uploadURL, data, fileName, mimeType)
	if err != nil {
		return nil, err
	}

	c.uploads.SetDefault(key, uploaded)
	return uploaded, nil
}

// startUpload opens a resumable upload and returns the session URL
func (c *GeminiClient) startUpload(fileName, mimeType string, size int64) (string, error) {
	meta, err := json.Marshal(map[string]interface{}{
		"file": map[string]interface{}{"display_name": fileName},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	req, err := fhttp.NewRequest(fhttp.MethodPost, models.EndpointUpload, bytes.NewReader(meta))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.UploadStartHeaders(mimeType, size) {
		req.Header.Set(key, value)
	}
	req.Header.Set("x-goog-api-key", c.creds.Get())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewUploadError("start request failed: "+err.Error(), fileName)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", apierrors.NewUploadError(
			fmt.Sprintf("start failed with status %d: %s", resp.StatusCode, string(body)), fileName)
	}

	uploadURL := resp.Header.Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return "", apierrors.NewUploadError("no upload URL in start response", fileName)
	}

	return uploadURL, nil
}

// finalizeUpload writes the bytes to the session URL and parses the
// file resource from the response.
func (c *GeminiClient) finalizeUpload(uploadURL string, data []byte, fileName, mimeType string) (*UploadedFile, error) {
	req, err := fhttp.NewRequest(fhttp.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.UploadFinalizeHeaders(int64(len(data))) {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewUploadError("finalize request failed: "+err.Error(), fileName)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewUploadError(
			fmt.Sprintf("finalize failed with status %d: %s", resp.StatusCode, string(body)), fileName)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewUploadError("failed to read response: "+err.Error(), fileName)
	}

	uri := gjson.GetBytes(body, PathFileURI).String()
	if uri == "" {
		return nil, apierrors.NewUploadError("no file URI in response", fileName)
	}

	uploaded := &UploadedFile{
		URI:         uri,
		Name:        gjson.GetBytes(body, PathFileName).String(),
		DisplayName: fileName,
		MIMEType:    gjson.GetBytes(body, PathFileMIME).String(),
		Size:        int64(len(data)),
	}
	if uploaded.MIMEType == "" {
		uploaded.MIMEType = mimeType
	}

	return uploaded, nil
}

// UploadCacheLen reports how many upload references are cached
func (c *GeminiClient) UploadCacheLen() int {
	return c.uploads.ItemCount()
}

func isSupportedImageType(mimeType string) bool {
	for _, supported := range SupportedImageTypes() {
		if mimeType == supported {
			return true
		}
	}
	return false
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
