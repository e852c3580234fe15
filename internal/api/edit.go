package api

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	apierrors "github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/models"
)

// EditOptions contains options for AI image edits
type EditOptions struct {
	Model string // defaults to the image-capable chat model
}

// EditImage sends an instruction plus a source image to an image-output
// model and returns the response. The chosen candidate carries at least
// one edited image.
func (c *GeminiClient) EditImage(instruction, imagePath string, opts *EditOptions) (*models.ModelOutput, error) {
	if instruction == "" {
		return nil, fmt.Errorf("instruction cannot be empty")
	}

	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if fileInfo.Size() > MaxUploadSize {
		return nil, fmt.Errorf("image size exceeds maximum %d bytes", MaxUploadSize)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(imagePath))
	if !isSupportedImageType(mimeType) {
		return nil, fmt.Errorf("unsupported image type: %s", mimeType)
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	model := models.ModelImage.Name
	if opts != nil && opts.Model != "" {
		model = opts.Model
	}

	contents := []Content{{
		Role:  models.RoleUser,
		Parts: []Part{TextPart(instruction), InlinePart(mimeType, data)},
	}}

	output, err := c.doGenerate(model, contents, &GenerateOptions{
		Modalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, err
	}

	if len(output.Images()) == 0 {
		return nil, apierrors.ErrNoContent
	}

	return output, nil
}
