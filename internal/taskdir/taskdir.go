// Package taskdir provides constants and utilities for the .tasklist directory structure.
package taskdir

import "path/filepath"

const (
	// Dir is the name of the per-project state directory.
	Dir = ".tasklist"

	// DefaultDataFile is the default export/import file name (inside .tasklist).
	DefaultDataFile = "tasks.json"

	// DefaultSchemaFile is the default strict-import schema file name (inside .tasklist).
	DefaultSchemaFile = "tasks.schema.json"

	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "tasklist.toml"
)

// DataPath returns the full path to the data file within a work directory.
func DataPath(workDir string) string {
	return joinPath(workDir, DefaultDataFile)
}

// SchemaPath returns the full path to the schema file within a work directory.
func SchemaPath(workDir string) string {
	return joinPath(workDir, DefaultSchemaFile)
}

// DirPath returns the full path to the .tasklist directory within a work directory.
func DirPath(workDir string) string {
	if workDir == "." || workDir == "" {
		return Dir
	}
	return filepath.Join(workDir, Dir)
}

func joinPath(workDir, file string) string {
	return filepath.Join(DirPath(workDir), file)
}
