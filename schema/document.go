package schema

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema wraps an arbitrary caller-supplied JSON Schema document.
// Validation is delegated to gojsonschema; the decoded value is returned
// untouched, with no defaults applied and no identities assigned.
type documentSchema struct {
	name       string
	raw        json.RawMessage
	descriptor *JSONSchema
	compiled   *gojsonschema.Schema
}

// FromDocument compiles a raw JSON Schema document into a Schema usable as
// a custom top-level contract. The name identifies the schema in backend
// requests.
func FromDocument(name string, doc json.RawMessage) (Schema, error) {
	if name == "" {
		name = "custom"
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema document %q: %w", name, err)
	}
	descriptor, err := FromJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("parse schema document %q: %w", name, err)
	}
	return &documentSchema{
		name:       name,
		raw:        doc,
		descriptor: descriptor,
		compiled:   compiled,
	}, nil
}

func (s *documentSchema) Name() string { return s.name }

func (s *documentSchema) Descriptor() *JSONSchema { return s.descriptor }

func (s *documentSchema) Validate(data []byte) (any, error) {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &ValidationErrors{Errors: []FieldError{{Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}
	if !result.Valid() {
		errs := make([]FieldError, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			errs = append(errs, FieldError{Path: re.Field(), Message: re.Description()})
		}
		return nil, &ValidationErrors{Errors: errs}
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, &ValidationErrors{Errors: []FieldError{{Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}
	return value, nil
}
