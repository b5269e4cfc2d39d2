package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// SchemaID identifies the generated schema.
const SchemaID = "https://github.com/NikitaCOEUR/bft/config.schema.json"

var (
	schemaOnce sync.Once
	schemaJSON []byte
	schemaErr  error
)

// GetSchemaJSON returns the JSON Schema for bft configuration, reflected
// from Config.
func GetSchemaJSON() ([]byte, error) {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			FieldNameTag:               "koanf",
			RequiredFromJSONSchemaTags: true,
			DoNotReference:             true,
			ExpandedStruct:             true,
		}
		s := r.Reflect(&Config{})
		s.Version = "http://json-schema.org/draft-07/schema#"
		s.ID = jsonschema.ID(SchemaID)
		s.Title = "bft configuration"
		schemaJSON, schemaErr = json.MarshalIndent(s, "", "  ")
	})
	return schemaJSON, schemaErr
}

// ValidateWithSchema validates config content against the JSON Schema.
// The format is taken from path's extension.
func ValidateWithSchema(path string, content []byte) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	data, err := parser.Unmarshal(content)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "syntax",
			Message: fmt.Sprintf("Invalid syntax: %v", err),
		})
		return result, nil
	}

	schema, err := GetSchemaJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	validationResult, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	if !validationResult.Valid() {
		result.Valid = false
		for _, err := range validationResult.Errors() {
			result.Errors = append(result.Errors, ValidationError{
				Field:   err.Field(),
				Message: err.Description(),
			})
		}
	}

	return result, nil
}
