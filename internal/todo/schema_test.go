package todo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateSchemaEmbedded(t *testing.T) {
	valid, err := Export(sampleTasks())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	tests := []struct {
		name      string
		data      string
		wantValid bool
		wantPath  string
	}{
		{name: "export output", data: string(valid), wantValid: true},
		{name: "empty array", data: "[]", wantValid: true},
		{
			name:     "unknown priority",
			data:     `[{"id": 1, "text": "a", "completed": false, "priority": "urgent", "date": null}]`,
			wantPath: "[0].priority",
		},
		{
			name:     "missing id",
			data:     `[{"text": "a", "completed": false, "priority": "low", "date": null}]`,
			wantPath: "[0]",
		},
		{
			name:     "empty text",
			data:     `[{"id": 1, "text": "", "completed": false, "priority": "low", "date": null}]`,
			wantPath: "[0].text",
		},
		{
			name:     "bad date format",
			data:     `[{"id": 1, "text": "a", "completed": false, "priority": "low", "date": "tomorrow"}]`,
			wantPath: "[0].date",
		},
		{
			name: "duplicate ids",
			data: `[{"id": 1, "text": "a", "completed": false, "priority": "low", "date": null},
			        {"id": 1, "text": "b", "completed": false, "priority": "low", "date": null}]`,
			wantPath: "[1].id",
		},
		{name: "object root", data: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSchema([]byte(tt.data), ValidationOptions{})
			if result.SchemaSource != "embedded" {
				t.Errorf("SchemaSource: got %q, want embedded", result.SchemaSource)
			}
			if result.Valid != tt.wantValid {
				t.Fatalf("Valid: got %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if tt.wantValid {
				if result.Err() != nil {
					t.Errorf("Err(): got %v, want nil", result.Err())
				}
				return
			}
			if result.Err() == nil {
				t.Error("Err(): got nil for invalid result")
			}
			if tt.wantPath == "" {
				return
			}
			found := false
			for _, e := range result.Errors {
				var ve *ValidationError
				if errors.As(e, &ve) && ve.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("no error at path %q: %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestValidateSchemaInvalidJSON(t *testing.T) {
	result := ValidateSchema([]byte("not json"), ValidationOptions{})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	var perr *ParseError
	if !errors.As(result.Errors[0], &perr) {
		t.Errorf("error type: got %T, want *ParseError", result.Errors[0])
	}
}

func TestValidateSchemaFromFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "strict.schema.json")
	schema := `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "maxItems": 1
}`
	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	result := ValidateSchema([]byte(`[{"id": 1}, {"id": 2}]`), ValidationOptions{SchemaPath: schemaPath})
	if result.SchemaSource != schemaPath {
		t.Errorf("SchemaSource: got %q, want %q", result.SchemaSource, schemaPath)
	}
	if result.Valid {
		t.Error("expected maxItems violation")
	}
}

func TestValidateSchemaMissingFileFallsBack(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	result := ValidateSchema([]byte("[]"), ValidationOptions{SchemaPath: missing})
	if !result.Valid {
		t.Errorf("expected valid with embedded schema, got %v", result.Errors)
	}
	if result.SchemaSource != "embedded" {
		t.Errorf("SchemaSource: got %q, want embedded", result.SchemaSource)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "not found") {
		t.Errorf("Warnings: got %v, want schema not found warning", result.Warnings)
	}
}
