package todo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasklist-go/internal/utils"
)

const defaultSchemaURL = "https://github.com/nibzard/tasklist-go/tasklist.schema.json"

// DefaultSchema is the JSON Schema used by strict imports when no schema
// file is configured.
const DefaultSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "tasklist export",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed", "priority", "date"],
    "additionalProperties": false,
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string", "minLength": 1},
      "completed": {"type": "boolean"},
      "priority": {"enum": ["high", "medium", "low"]},
      "date": {"type": ["string", "null"], "format": "date-time"},
      "memo": {"type": "string"}
    }
  }
}`

// ValidationError is a schema violation with the path of the offending value.
type ValidationError struct {
	Path string // dotted path, e.g. "[2].priority"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls strict validation.
type ValidationOptions struct {
	// SchemaPath is a JSON Schema file. If empty or unreadable, the
	// embedded DefaultSchema is used.
	SchemaPath string
}

// ValidationResult contains strict validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	// SchemaSource is the schema file used, or "embedded".
	SchemaSource string
}

// Err joins the validation errors, or returns nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("task list failed validation: %s", strings.Join(msgs, "; "))
}

// ValidateSchema checks a raw export document against the task list schema
// and that ids are unique.
func ValidateSchema(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, source, warning := compileSchema(opts.SchemaPath)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	result.SchemaSource = source
	if schema == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("no usable schema")})
		return result
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ParseError{Err: err})
		return result
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	checkUniqueIDs(result, doc)
	return result
}

// compileSchema compiles the schema at path, falling back to DefaultSchema.
func compileSchema(path string) (*jsonschema.Schema, string, string) {
	var warning string
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			warning = fmt.Sprintf("invalid schema path: %v", err)
		} else if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				warning = fmt.Sprintf("schema file not found: %s, using embedded schema", absPath)
			} else {
				warning = fmt.Sprintf("failed to read schema file: %v, using embedded schema", err)
			}
		} else {
			compiler := jsonschema.NewCompiler()
			compiler.AssertFormat = true
			schema, err := compiler.Compile(absPath)
			if err == nil {
				return schema, absPath, ""
			}
			warning = fmt.Sprintf("invalid schema file: %v, using embedded schema", err)
		}
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(defaultSchemaURL, strings.NewReader(DefaultSchema)); err != nil {
		return nil, "", fmt.Sprintf("embedded schema: %v", err)
	}
	schema, err := compiler.Compile(defaultSchemaURL)
	if err != nil {
		return nil, "", fmt.Sprintf("embedded schema: %v", err)
	}
	return schema, "embedded", warning
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func checkUniqueIDs(result *ValidationResult, doc interface{}) {
	items, ok := doc.([]interface{})
	if !ok {
		return
	}
	seen := make(map[float64]int, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		id, ok := obj["id"].(float64)
		if !ok {
			continue
		}
		if first, dup := seen[id]; dup {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %.0f (first used at [%d])", id, first),
			})
			continue
		}
		seen[id] = i
	}
}
