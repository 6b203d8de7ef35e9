// ABOUTME: Converts the provider-neutral schema into each SDK's schema type
// ABOUTME: go-openai uses jsonschema.Definition, genai uses *genai.Schema
package llm

import (
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"
)

func (s *Schema) openAIDefinition() jsonschema.Definition {
	if s == nil {
		return jsonschema.Definition{Type: jsonschema.Object}
	}

	def := jsonschema.Definition{
		Type:        openAIType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if len(s.Properties) > 0 {
		def.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for name, prop := range s.Properties {
			def.Properties[name] = prop.openAIDefinition()
		}
	}
	if s.Items != nil {
		items := s.Items.openAIDefinition()
		def.Items = &items
	}
	return def
}

func openAIType(t SchemaType) jsonschema.DataType {
	switch t {
	case TypeString:
		return jsonschema.String
	case TypeNumber:
		return jsonschema.Number
	case TypeBoolean:
		return jsonschema.Boolean
	case TypeArray:
		return jsonschema.Array
	default:
		return jsonschema.Object
	}
}

func (s *Schema) geminiSchema() *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        geminiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.geminiSchema()
		}
	}
	if s.Items != nil {
		out.Items = s.Items.geminiSchema()
	}
	return out
}

func geminiType(t SchemaType) genai.Type {
	switch t {
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeArray:
		return genai.TypeArray
	default:
		return genai.TypeObject
	}
}
