package genserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/chunkstitch/chunkstitch/internal/layout"
)

// Message types.
const (
	TypeGenerate = "generate"
	TypeLevel    = "level"
	TypeError    = "error"
)

// Error codes.
const (
	CodeBadRequest       = "bad_request"
	CodeGenerationFailed = "generation_failed"
)

// GenerateRequest asks the service for one level. Exactly one of Seed and
// SeedPhrase is used; SeedPhrase wins when both are present. Extents must
// match the dimensionality of the chunk file the service was started with.
type GenerateRequest struct {
	Type        string    `json:"type"`
	Seed        int64     `json:"seed,omitempty"`
	SeedPhrase  string    `json:"seed_phrase,omitempty"`
	Extents     []float64 `json:"extents"`
	MaxChunks   int       `json:"max_chunks"`
	AlignOffset float64   `json:"align_offset,omitempty"`
	SeedTag     string    `json:"seed_tag,omitempty"`
}

// LevelResponse carries the generated layout.
type LevelResponse struct {
	Type   string         `json:"type"`
	Seed   int64          `json:"seed"`
	Layout *layout.Layout `json:"layout"`
}

// ErrorResponse reports a rejected or failed request.
type ErrorResponse struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// generateSchema validates incoming requests before they are decoded into
// GenerateRequest, so malformed input is rejected with a schema path
// instead of a half-populated struct.
const generateSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["type", "extents", "max_chunks"],
	"properties": {
		"type": {"const": "generate"},
		"seed": {"type": "integer"},
		"seed_phrase": {"type": "string"},
		"extents": {
			"type": "array",
			"minItems": 2,
			"maxItems": 3,
			"items": {"type": "number", "exclusiveMinimum": 0}
		},
		"max_chunks": {"type": "integer", "minimum": 1},
		"align_offset": {"type": "number", "minimum": 0},
		"seed_tag": {"type": "string"}
	},
	"additionalProperties": false
}`

var compiledGenerateSchema = jsonschema.MustCompileString("generate.json", generateSchema)

// ParseGenerateRequest validates raw JSON against the request schema and
// decodes it.
func ParseGenerateRequest(data []byte) (*GenerateRequest, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledGenerateSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("schema violation: %s", schemaError(err))
	}
	var req GenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// schemaError flattens a jsonschema validation error into one line.
func schemaError(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}
