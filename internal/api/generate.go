package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/geministudio/internal/errors"
	"github.com/diogo/geministudio/internal/models"
)

// Part is one element of a conversation turn. Exactly one of Text,
// InlineData, or FileURI is set.
type Part struct {
	Text       string
	InlineMIME string
	InlineData []byte
	FileMIME   string
	FileURI    string
}

// Content is a single conversation turn in request form
type Content struct {
	Role  string
	Parts []Part
}

// TextPart builds a text part
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart builds an inline image part from raw bytes
func InlinePart(mimeType string, data []byte) Part {
	return Part{InlineMIME: mimeType, InlineData: data}
}

// FilePart builds a part referencing an uploaded file
func FilePart(f *UploadedFile) Part {
	return Part{FileMIME: f.MIMEType, FileURI: f.URI}
}

// UserContent builds a user turn from a prompt and optional attachments
func UserContent(prompt string, files []*UploadedFile) Content {
	parts := []Part{TextPart(prompt)}
	for _, f := range files {
		parts = append(parts, FilePart(f))
	}
	return Content{Role: models.RoleUser, Parts: parts}
}

// ModelContent builds a model turn holding response text
func ModelContent(text string) Content {
	return Content{Role: models.RoleModel, Parts: []Part{TextPart(text)}}
}

// GenerateOptions contains options for content generation
type GenerateOptions struct {
	Model          models.Model
	History        []Content       // prior turns, oldest first
	Files          []*UploadedFile // attachments for this turn
	SystemPrompt   string          // persona system instruction
	Temperature    float64         // 0 means API default
	CandidateCount int             // 0 or 1 means single candidate
	Search         bool            // enable web-search grounding
	Thinking       bool            // request thought summaries
	Modalities     []string        // response modalities, nil means text
}

// GenerateContent sends a prompt to the API and returns the parsed response
func (c *GeminiClient) GenerateContent(prompt string, opts *GenerateOptions) (*models.ModelOutput, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	var o GenerateOptions
	if opts != nil {
		o = *opts
	}

	model := c.GetModel()
	if !o.Model.IsUnspecified() {
		model = o.Model
	}

	contents := make([]Content, 0, len(o.History)+1)
	contents = append(contents, o.History...)
	contents = append(contents, UserContent(prompt, o.Files))

	return c.doGenerate(model.Name, contents, &o)
}

// doGenerate performs a generateContent request against the given model
func (c *GeminiClient) doGenerate(modelName string, contents []Content, opts *GenerateOptions) (*models.ModelOutput, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	payload, err := buildGeneratePayload(contents, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := models.GenerateEndpoint(modelName)
	req, err := c.newJSONRequest(fhttp.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("generate content", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, errorFromResponse(resp, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseGenerateResponse(body)
}

// buildGeneratePayload marshals the generateContent request body.
// Request fields follow the REST API's documented shapes; proto JSON
// accepts both casings, responses always come back camelCase.
func buildGeneratePayload(contents []Content, opts *GenerateOptions) ([]byte, error) {
	turns := make([]interface{}, 0, len(contents))
	for _, content := range contents {
		parts := make([]interface{}, 0, len(content.Parts))
		for _, p := range content.Parts {
			switch {
			case p.FileURI != "":
				parts = append(parts, map[string]interface{}{
					"file_data": map[string]interface{}{
						"mime_type": p.FileMIME,
						"file_uri":  p.FileURI,
					},
				})
			case p.InlineData != nil:
				parts = append(parts, map[string]interface{}{
					"inline_data": map[string]interface{}{
						"mime_type": p.InlineMIME,
						"data":      base64.StdEncoding.EncodeToString(p.InlineData),
					},
				})
			default:
				parts = append(parts, map[string]interface{}{"text": p.Text})
			}
		}
		turns = append(turns, map[string]interface{}{
			"role":  content.Role,
			"parts": parts,
		})
	}

	payload := map[string]interface{}{
		"contents": turns,
	}

	if opts.SystemPrompt != "" {
		payload["system_instruction"] = map[string]interface{}{
			"parts": []interface{}{map[string]interface{}{"text": opts.SystemPrompt}},
		}
	}

	if opts.Search {
		payload["tools"] = []interface{}{
			map[string]interface{}{"google_search": map[string]interface{}{}},
		}
	}

	genConfig := map[string]interface{}{}
	if opts.Thinking {
		genConfig["thinkingConfig"] = map[string]interface{}{"includeThoughts": true}
	}
	if opts.Temperature > 0 {
		genConfig["temperature"] = opts.Temperature
	}
	if opts.CandidateCount > 1 {
		genConfig["candidateCount"] = opts.CandidateCount
	}
	if len(opts.Modalities) > 0 {
		genConfig["responseModalities"] = opts.Modalities
	}
	if len(genConfig) > 0 {
		payload["generationConfig"] = genConfig
	}

	return json.Marshal(payload)
}

// parseGenerateResponse parses a generateContent response body
func parseGenerateResponse(body []byte) (*models.ModelOutput, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	// A 200 response can still carry an error envelope
	if errCode := parsed.Get(PathErrorCode); errCode.Exists() {
		return nil, apierrors.FromStatusCode(
			int(errCode.Int()),
			"",
			parsed.Get(PathErrorStatus).String(),
			parsed.Get(PathErrorMessage).String(),
			"",
		)
	}

	if reason := parsed.Get(PathBlockReason).String(); reason != "" && reason != "BLOCK_REASON_UNSPECIFIED" {
		return nil, apierrors.NewBlockedError(reason, "prompt was blocked before generation")
	}

	candidateList := parsed.Get(PathCandidates)
	if !candidateList.Exists() || !candidateList.IsArray() {
		return nil, apierrors.ErrNoContent
	}

	var candidates []models.Candidate
	var safetyReason string

	candidateList.ForEach(func(_, candValue gjson.Result) bool {
		var text, thoughts strings.Builder
		var images []models.GeneratedImage

		candValue.Get(PathCandParts).ForEach(func(_, partValue gjson.Result) bool {
			if data := partValue.Get(PathPartInlineData); data.Exists() {
				decoded, err := base64.StdEncoding.DecodeString(data.String())
				if err != nil {
					return true // skip undecodable parts
				}
				images = append(images, models.GeneratedImage{
					MIMEType: partValue.Get(PathPartInlineMIME).String(),
					Data:     decoded,
				})
				return true
			}

			partText := partValue.Get(PathPartText).String()
			if partValue.Get(PathPartThought).Bool() {
				thoughts.WriteString(partText)
			} else {
				text.WriteString(partText)
			}
			return true
		})

		var citations []models.Citation
		candValue.Get(PathCandGrounding).ForEach(func(_, chunkValue gjson.Result) bool {
			uri := chunkValue.Get(PathChunkURI).String()
			if uri == "" {
				return true
			}
			citations = append(citations, models.Citation{
				Title: chunkValue.Get(PathChunkTitle).String(),
				URI:   uri,
			})
			return true
		})

		if text.Len() == 0 && thoughts.Len() == 0 && len(images) == 0 {
			// Track safety stops so an all-empty response reports why
			if reason := candValue.Get(PathCandFinishReason).String(); isSafetyStop(reason) {
				safetyReason = reason
			}
			return true
		}

		candidates = append(candidates, models.Candidate{
			Text:      text.String(),
			Thoughts:  thoughts.String(),
			Citations: citations,
			Images:    images,
		})
		return true
	})

	if len(candidates) == 0 {
		if safetyReason != "" {
			return nil, apierrors.NewBlockedError(safetyReason, "generation stopped by safety filters")
		}
		return nil, apierrors.ErrNoContent
	}

	return &models.ModelOutput{
		Candidates: candidates,
		Chosen:     0,
		Model:      parsed.Get(PathModelVersion).String(),
	}, nil
}

func isSafetyStop(finishReason string) bool {
	switch finishReason {
	case "SAFETY", "IMAGE_SAFETY", "PROHIBITED_CONTENT", "BLOCKLIST":
		return true
	}
	return false
}
