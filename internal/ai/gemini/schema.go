package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/spigell/recruiter-assistant/internal/ai"
)

// responseSchema mirrors ai.FitAssessmentSchema in the dialect Gemini accepts.
var responseSchema = mustResponseSchema(ai.FitAssessmentSchema)

type jsonSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Enum        []string               `json:"enum"`
	Items       *jsonSchema            `json:"items"`
	Properties  map[string]*jsonSchema `json:"properties"`
	Required    []string               `json:"required"`
}

func mustResponseSchema(raw []byte) *genai.Schema {
	var src jsonSchema
	if err := json.Unmarshal(raw, &src); err != nil {
		panic(fmt.Sprintf("parse fit assessment schema: %v", err))
	}
	return convertSchema(&src)
}

func convertSchema(src *jsonSchema) *genai.Schema {
	if src == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genai.Type(strings.ToUpper(src.Type)),
		Description: src.Description,
		Enum:        src.Enum,
		Items:       convertSchema(src.Items),
		Required:    src.Required,
	}
	if src.Enum != nil {
		out.Format = "enum"
	}

	if len(src.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(src.Properties))
		for name, prop := range src.Properties {
			out.Properties[name] = convertSchema(prop)
		}
		// keep the declared field order in the generated JSON
		out.PropertyOrdering = src.Required
	}

	return out
}
