package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// predictionResponseSchema constrains the model output.
var predictionResponseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"summary":          map[string]any{"type": "STRING"},
		"suggestedAction":  map[string]any{"type": "STRING"},
		"projectedRevenue": map[string]any{"type": "NUMBER"},
		"confidenceScore":  map[string]any{"type": "NUMBER"},
	},
	"required": []string{"summary", "suggestedAction", "projectedRevenue", "confidenceScore"},
}

const predictionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary", "suggestedAction", "projectedRevenue", "confidenceScore"],
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "suggestedAction": {"type": "string", "minLength": 1},
    "projectedRevenue": {"type": "number", "minimum": 0},
    "confidenceScore": {"type": "number", "minimum": 0, "maximum": 100}
  }
}`

type predictionValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

func newPredictionValidator() *predictionValidator {
	return &predictionValidator{}
}

func (v *predictionValidator) compile() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("prediction.json", strings.NewReader(predictionSchema)); err != nil {
			v.err = fmt.Errorf("assistant: load schema: %w", err)
			return
		}
		v.schema, v.err = compiler.Compile("prediction.json")
	})
	return v.schema, v.err
}

// parse decodes and validates a model reply. Markdown code fences around the
// JSON are tolerated.
func (v *predictionValidator) parse(text string) (Prediction, error) {
	schema, err := v.compile()
	if err != nil {
		return Prediction{}, err
	}
	text = stripFences(text)
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return Prediction{}, fmt.Errorf("assistant: decode prediction: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Prediction{}, fmt.Errorf("assistant: invalid prediction: %w", err)
	}
	var out Prediction
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return Prediction{}, fmt.Errorf("assistant: decode prediction: %w", err)
	}
	return out, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
