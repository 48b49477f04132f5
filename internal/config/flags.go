package config

import (
	"flag"
	"strings"
)

// flagFields maps global flag names to the config fields they set.
var flagFields = map[string]string{
	"data":           "data_file",
	"schema":         "schema_file",
	"strict":         "strict_import",
	"sort":           "default_sort",
	"filter":         "default_filter",
	"priority":       "default_priority",
	"log-dir":        "log_dir",
	"journal":        "journal",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args.
// Flags are bound directly to cfg, so their defaults are whatever the
// lower layers produced. If sources is non-nil, explicitly set flags are
// recorded as SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "Path to the task data file")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "JSON Schema for strict import (default: embedded)")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for session journals")

	// Import
	fs.BoolVar(&cfg.StrictImport, "strict", cfg.StrictImport, "Validate imports against the JSON Schema")

	// List and form defaults
	fs.StringVar(&cfg.DefaultSort, "sort", cfg.DefaultSort, "Default sort: default, priority, completed, date")
	fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Default filter: all, completed, incomplete")
	fs.StringVar(&cfg.DefaultPriority, "priority", cfg.DefaultPriority, "Default priority for new tasks")

	// Journal and logging
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Write a JSONL session journal")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.DefaultSort = strings.ToLower(cfg.DefaultSort)
	cfg.DefaultFilter = strings.ToLower(cfg.DefaultFilter)
	cfg.DefaultPriority = strings.ToLower(cfg.DefaultPriority)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
