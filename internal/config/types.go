package config

import (
	"fmt"

	"github.com/nibzard/tasklist-go/internal/taskdir"
	"github.com/nibzard/tasklist-go/internal/todo"
	"github.com/nibzard/tasklist-go/internal/view"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, user file first.
	Files []string
}

// Default values.
const (
	DefaultLogDir    = "~/.tasklist"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// DefaultDataFile is the data file used when none is configured.
var DefaultDataFile = taskdir.DataPath("")

// Config holds the full configuration for tasklist.
type Config struct {
	// Paths
	DataFile   string `toml:"data_file"`
	SchemaFile string `toml:"schema_file"`
	LogDir     string `toml:"log_dir"`

	// Import
	StrictImport bool `toml:"strict_import"`

	// List and form defaults
	DefaultSort     string `toml:"default_sort"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultPriority string `toml:"default_priority"`

	// Session journal (JSONL, one line per store mutation)
	Journal bool `toml:"journal"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// SortKey returns the configured default sort key.
func (c *Config) SortKey() view.SortKey {
	k, err := view.ParseSortKey(c.DefaultSort)
	if err != nil {
		return view.SortDefault
	}
	return k
}

// Filter returns the configured default filter.
func (c *Config) Filter() view.Filter {
	f, err := view.ParseFilter(c.DefaultFilter)
	if err != nil {
		return view.FilterAll
	}
	return f
}

// Priority returns the configured default priority for new tasks.
func (c *Config) Priority() todo.Priority {
	p, err := todo.ParsePriority(c.DefaultPriority)
	if err != nil {
		return todo.PriorityMedium
	}
	return p
}

// Validate reports the first invalid enumerated setting.
func (c *Config) Validate() error {
	if _, err := view.ParseSortKey(c.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	if _, err := view.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, err := todo.ParsePriority(c.DefaultPriority); err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level: invalid value %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: invalid value %q, must be one of: text, json, logfmt", c.LogFormat)
	}
	return nil
}
