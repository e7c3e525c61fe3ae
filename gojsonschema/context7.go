// Package gojsonschema validates the context7.json manifest against its
// JSON schema.
package gojsonschema

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/sdkdoc"
	"github.com/xeipuuv/gojsonschema"
)

// Context7Schema describes a valid context7.json manifest.
const Context7Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["projectTitle", "description", "version", "folders"],
  "properties": {
    "projectTitle": {"type": "string", "minLength": 1},
    "description": {"type": "string", "minLength": 1},
    "version": {"type": "string"},
    "folders": {"type": "array", "items": {"type": "string"}},
    "excludeFolders": {"type": "array", "items": {"type": "string"}},
    "excludeFiles": {"type": "array", "items": {"type": "string"}},
    "includePatterns": {"type": "array", "items": {"type": "string"}},
    "metadata": {"type": "object"}
  }
}`

// Ensure Validator implements sdkdoc.Context7Validator at compile time.
var _ sdkdoc.Context7Validator = (*Validator)(nil)

// Validator checks manifests against a compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles Context7Schema.
func NewValidator() (*Validator, error) {
	return NewValidatorWithSchema(Context7Schema)
}

// NewValidatorWithSchema compiles a custom schema.
func NewValidatorWithSchema(schema string) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.EINVALID, "compile schema: %v", err)
	}
	return &Validator{schema: s}, nil
}

// Validate returns one error-severity issue per schema violation.
func (v *Validator) Validate(file string, data []byte) ([]sdkdoc.Issue, error) {
	if !json.Valid(data) {
		return nil, sdkdoc.Errorf(sdkdoc.EINVALID, "%s is not valid JSON", file)
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.EINVALID, "validate %s: %v", file, err)
	}

	var issues []sdkdoc.Issue
	for _, re := range result.Errors() {
		issues = append(issues, sdkdoc.Issue{
			Type:     "SCHEMA_VIOLATION",
			Message:  fmt.Sprintf("%s: %s", re.Field(), re.Description()),
			File:     file,
			Severity: sdkdoc.SeverityError,
		})
	}
	return issues, nil
}
