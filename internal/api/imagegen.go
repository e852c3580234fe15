package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/models"
)

// ImagineOptions contains options for text-to-image generation
type ImagineOptions struct {
	Model          string // defaults to the client's image model
	Count          int    // images per request, clamped to the API maximum
	AspectRatio    string // defaults to models.DefaultAspectRatio
	NegativePrompt string
}

// GenerateImages generates images from a text prompt via the predict
// endpoint. The API serves at most MaxImageCount images per call;
// callers wanting more fan out over multiple calls.
func (c *GeminiClient) GenerateImages(prompt string, opts *ImagineOptions) ([]models.GeneratedImage, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	var o ImagineOptions
	if opts != nil {
		o = *opts
	}

	model := o.Model
	if model == "" {
		model = c.GetImageModel()
	}

	count := o.Count
	if count < 1 {
		count = models.DefaultImageCount
	}
	if count > models.MaxImageCount {
		count = models.MaxImageCount
	}

	ratio := o.AspectRatio
	if ratio == "" {
		ratio = models.DefaultAspectRatio
	}
	if !models.ValidAspectRatio(ratio) {
		return nil, fmt.Errorf("invalid aspect ratio %q (valid: %v)", ratio, models.AspectRatios)
	}

	payload, err := buildPredictPayload(prompt, count, ratio, o.NegativePrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := models.PredictEndpoint(model)
	req, err := c.newJSONRequest(fhttp.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("generate images", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, errorFromResponse(resp, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parsePredictResponse(body)
}

// buildPredictPayload marshals the predict request body
func buildPredictPayload(prompt string, count int, aspectRatio, negativePrompt string) ([]byte, error) {
	parameters := map[string]interface{}{
		"sampleCount": count,
		"aspectRatio": aspectRatio,
	}
	if negativePrompt != "" {
		parameters["negativePrompt"] = negativePrompt
	}

	payload := map[string]interface{}{
		"instances": []interface{}{
			map[string]interface{}{"prompt": prompt},
		},
		"parameters": parameters,
	}

	return json.Marshal(payload)
}

// parsePredictResponse decodes the base64 images from a predict response
func parsePredictResponse(body []byte) ([]models.GeneratedImage, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	if errCode := parsed.Get(PathErrorCode); errCode.Exists() {
		return nil, apierrors.FromStatusCode(
			int(errCode.Int()),
			"",
			parsed.Get(PathErrorStatus).String(),
			parsed.Get(PathErrorMessage).String(),
			"",
		)
	}

	predictions := parsed.Get(PathPredictions)
	if !predictions.Exists() || !predictions.IsArray() {
		// Imagen reports filtered prompts with an empty prediction list
		return nil, apierrors.ErrNoContent
	}

	var images []models.GeneratedImage
	predictions.ForEach(func(_, predValue gjson.Result) bool {
		encoded := predValue.Get(PathPredData).String()
		if encoded == "" {
			return true
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return true
		}

		mimeType := predValue.Get(PathPredMIME).String()
		if mimeType == "" {
			mimeType = "image/png"
		}

		images = append(images, models.GeneratedImage{
			MIMEType: mimeType,
			Data:     data,
		})
		return true
	})

	if len(images) == 0 {
		return nil, apierrors.ErrNoContent
	}

	return images, nil
}
