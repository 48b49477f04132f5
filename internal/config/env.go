package config

import (
	"os"
	"strings"
)

// envBinding maps one TASKLIST_* variable onto a config field.
type envBinding struct {
	name  string
	field string
	set   func(cfg *Config, v string)
}

var envBindings = []envBinding{
	{"TASKLIST_DATA", "data_file", func(c *Config, v string) { c.DataFile = v }},
	{"TASKLIST_SCHEMA", "schema_file", func(c *Config, v string) { c.SchemaFile = v }},
	{"TASKLIST_STRICT", "strict_import", func(c *Config, v string) { c.StrictImport = boolFromString(v) }},
	{"TASKLIST_SORT", "default_sort", func(c *Config, v string) { c.DefaultSort = strings.ToLower(v) }},
	{"TASKLIST_FILTER", "default_filter", func(c *Config, v string) { c.DefaultFilter = strings.ToLower(v) }},
	{"TASKLIST_PRIORITY", "default_priority", func(c *Config, v string) { c.DefaultPriority = strings.ToLower(v) }},
	{"TASKLIST_LOG_DIR", "log_dir", func(c *Config, v string) { c.LogDir = v }},
	{"TASKLIST_JOURNAL", "journal", func(c *Config, v string) { c.Journal = boolFromString(v) }},
	{"TASKLIST_LOG_LEVEL", "log_level", func(c *Config, v string) { c.LogLevel = strings.ToLower(v) }},
	{"TASKLIST_LOG_FORMAT", "log_format", func(c *Config, v string) { c.LogFormat = strings.ToLower(v) }},
	{"TASKLIST_LOG_TIMESTAMPS", "log_timestamps", func(c *Config, v string) { c.LogTimestamps = boolFromString(v) }},
	{"TASKLIST_LOG_CALLER", "log_caller", func(c *Config, v string) { c.LogCaller = boolFromString(v) }},
}

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it records SourceEnv for every field that was set.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		b.set(cfg, v)
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}

// EnvVars returns the supported environment variable names.
func EnvVars() []string {
	names := make([]string, 0, len(envBindings))
	for _, b := range envBindings {
		names = append(names, b.name)
	}
	return names
}

// boolFromString parses a boolean from common string values.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
