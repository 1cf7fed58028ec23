// Package schemas provides JSON Schema validation for the responses the widget receives.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	rootschemas "github.com/jonathan/resume-intake/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	submissionSchemaOnce sync.Once
	submissionSchema     *gojsonschema.Schema
	submissionSchemaErr  error
)

// ValidateSubmissionResult validates a POST /api/resumes response body
// against the embedded submission_result schema.
func ValidateSubmissionResult(body []byte) error {
	submissionSchemaOnce.Do(func() {
		submissionSchema, submissionSchemaErr = gojsonschema.NewSchema(
			gojsonschema.NewBytesLoader(rootschemas.SubmissionResult),
		)
	})
	if submissionSchemaErr != nil {
		return &SchemaLoadError{
			Path:    "submission_result.schema.json",
			Message: "schema compilation failed",
			Cause:   submissionSchemaErr,
		}
	}

	result, err := submissionSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &SchemaLoadError{
			Path:    "submission_result.schema.json",
			Message: "document could not be loaded",
			Cause:   err,
		}
	}

	return buildValidationError(result)
}

// buildValidationError converts a gojsonschema result into a *ValidationError, or nil when valid.
func buildValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
