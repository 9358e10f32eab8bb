package ai

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FitAssessmentSchema is the JSON schema every provider must satisfy in
// assessment mode.
//
//go:embed fit_assessment.schema.json
var FitAssessmentSchema []byte

// ErrInvalidAssessment is returned when model output does not match the schema.
var ErrInvalidAssessment = errors.New("model output does not match fit assessment schema")

var fitAssessmentSchema = mustCompile(FitAssessmentSchema)

func mustCompile(raw []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile fit assessment schema: %v", err))
	}
	return schema
}

// DecodeFitAssessment validates raw model output against the schema and
// decodes it.
func DecodeFitAssessment(raw []byte) (*FitAssessment, error) {
	result, err := fitAssessmentSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate fit assessment: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidAssessment, strings.Join(problems, "; "))
	}

	var assessment FitAssessment
	if err := json.Unmarshal(raw, &assessment); err != nil {
		return nil, fmt.Errorf("decode fit assessment: %w", err)
	}

	return &assessment, nil
}

// ExtractJSON strips markdown code fences some models wrap around JSON output.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
