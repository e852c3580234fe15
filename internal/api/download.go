package api

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"

	"github.com/diogo/geministudio/internal/config"
	apierrors "github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/models"
)

// SaveOptions configures where generated images are written
type SaveOptions struct {
	// Directory is the destination (default: the configured download dir)
	Directory string
	// Prefix seeds the generated filename (default: "image")
	Prefix string
	// Filename overrides name generation entirely
	Filename string
}

// DefaultSaveOptions returns save options targeting the configured
// download directory.
func DefaultSaveOptions() SaveOptions {
	dir, err := config.GetDownloadDir(config.DefaultConfig())
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".geministudio", "images")
	}
	return SaveOptions{Directory: dir}
}

// SaveImage writes a generated image to disk and returns its absolute path
func (c *GeminiClient) SaveImage(img models.GeneratedImage, opts SaveOptions) (string, error) {
	if len(img.Data) == 0 {
		return "", apierrors.NewDownloadError("image has no data", "")
	}

	dir := opts.Directory
	if dir == "" {
		dir = DefaultSaveOptions().Directory
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", apierrors.NewDownloadError("failed to create directory: "+err.Error(), "")
	}

	filename := opts.Filename
	if filename == "" {
		filename = generateFilename(opts.Prefix, img.Ext())
	}

	destPath := filepath.Join(dir, filename)
	if err := os.WriteFile(destPath, img.Data, 0644); err != nil {
		return "", apierrors.NewDownloadError("failed to save file: "+err.Error(), "")
	}

	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return destPath, nil
	}
	return absPath, nil
}

// SaveImages writes each image to disk. Paths for successful writes are
// returned even when some images fail; the last failure is reported only
// when nothing could be written.
func (c *GeminiClient) SaveImages(images []models.GeneratedImage, opts SaveOptions) ([]string, error) {
	var paths []string
	var lastError error

	for _, img := range images {
		imgOpts := opts
		imgOpts.Filename = "" // each image gets its own generated name

		path, err := c.SaveImage(img, imgOpts)
		if err != nil {
			lastError = err
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 && lastError != nil {
		return nil, lastError
	}

	return paths, nil
}

// FetchImage retrieves an image addressed by URI, such as a File API
// reference from an earlier upload.
func (c *GeminiClient) FetchImage(uri string) (*models.GeneratedImage, error) {
	req, err := fhttp.NewRequest(fhttp.MethodGet, uri, nil)
	if err != nil {
		return nil, apierrors.NewDownloadError("failed to create request: "+err.Error(), uri)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("x-goog-api-key", c.creds.Get())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewDownloadNetworkError(uri, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, apierrors.NewDownloadErrorWithStatus(uri, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return nil, apierrors.NewDownloadError("response is not an image: "+contentType, uri)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewDownloadError("failed to read response: "+err.Error(), uri)
	}

	return &models.GeneratedImage{MIMEType: contentType, Data: data}, nil
}

// generateFilename builds a collision-free name from a sanitized prefix,
// a timestamp, and a short random suffix.
func generateFilename(prefix, ext string) string {
	safe := sanitizeFilename(prefix)
	if safe == "" {
		safe = "image"
	}
	if len(safe) > 40 {
		safe = safe[:40]
	}

	stamp := time.Now().Format("20060102_150405")
	suffix := uuid.NewString()[:8]

	return fmt.Sprintf("%s_%s_%s%s", safe, stamp, suffix, ext)
}

// sanitizeFilename removes characters not allowed in filenames and
// collapses whitespace to underscores.
func sanitizeFilename(name string) string {
	reg := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	safe := reg.ReplaceAllString(name, "_")
	safe = strings.Join(strings.Fields(safe), "_")
	return strings.Trim(safe, "._ ")
}
