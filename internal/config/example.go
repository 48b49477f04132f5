package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables or CLI flags

# Task data file (relative to the project root)
data_file = ".tasklist/tasks.json"

# JSON Schema used by strict imports (embedded schema when empty)
# schema_file = ".tasklist/tasks.schema.json"

# Reject imports that do not match the schema
strict_import = false

# List defaults
default_sort = "default"      # default, priority, completed, date
default_filter = "all"        # all, completed, incomplete
default_priority = "medium"   # high, medium, low

# Session journal directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.tasklist"

# Write a JSONL line for every change made in a session
journal = false

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
