// Package api provides the Generative Language REST API client.
package api

// GJSON paths for extracting values from API responses.
// Responses serialize proto fields in camelCase.
const (
	// Generate response paths
	PathCandidates   = "candidates"
	PathModelVersion = "modelVersion"
	PathBlockReason  = "promptFeedback.blockReason"

	// Candidate paths (relative to a candidate object)
	PathCandParts        = "content.parts"
	PathCandFinishReason = "finishReason"
	PathCandGrounding    = "groundingMetadata.groundingChunks"

	// Part paths (relative to a part object)
	PathPartText       = "text"
	PathPartThought    = "thought"
	PathPartInlineMIME = "inlineData.mimeType"
	PathPartInlineData = "inlineData.data"

	// Grounding chunk paths (relative to a chunk object)
	PathChunkURI   = "web.uri"
	PathChunkTitle = "web.title"

	// Error envelope paths
	PathErrorCode    = "error.code"
	PathErrorStatus  = "error.status"
	PathErrorMessage = "error.message"

	// Predict (Imagen) response paths
	PathPredictions = "predictions"
	PathPredData    = "bytesBase64Encoded"
	PathPredMIME    = "mimeType"

	// File API response paths
	PathFileURI   = "file.uri"
	PathFileName  = "file.name"
	PathFileMIME  = "file.mimeType"
	PathFileState = "file.state"

	// Model list paths
	PathModels = "models"
)
