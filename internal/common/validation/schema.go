// Package validation holds the JSON schema of every result kind and checks values against them.
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/models"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var (
	compileOnce sync.Once
	compiled    map[models.ResultKind]*gojsonschema.Schema
	compileErr  error
)

func compileAll() {
	compiled = make(map[models.ResultKind]*gojsonschema.Schema, len(resultSchemas))
	for kind, text := range resultSchemas {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(text))
		if err != nil {
			compileErr = fmt.Errorf("compile %s schema: %w", kind, err)
			return
		}
		compiled[kind] = s
	}
}

// SchemaFor returns the JSON schema text for kind. It is also the schema restated to the
// repair model.
func SchemaFor(kind models.ResultKind) (string, error) {
	text, ok := resultSchemas[kind]
	if !ok {
		return "", fmt.Errorf("no schema for result kind %q", kind)
	}
	return text, nil
}

// ValidateResult checks a typed result (or any JSON-marshalable value) against the schema of kind.
func ValidateResult(kind models.ResultKind, value interface{}) (*ValidationResult, error) {
	compileOnce.Do(compileAll)
	if compileErr != nil {
		return nil, compileErr
	}
	schema, ok := compiled[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for result kind %q", kind)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return vr, nil
}

// Check is ValidateResult reporting a schema violation as NORMALIZATION_ERROR.
func Check(kind models.ResultKind, value interface{}) error {
	vr, err := ValidateResult(kind, value)
	if err != nil {
		return err
	}
	if !vr.Valid {
		return apperrors.NewNormalizationError(kind.Label(), strings.Join(vr.GetErrorMessages(), "; "))
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}
