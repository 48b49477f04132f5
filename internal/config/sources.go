package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nibzard/tasklist-go/internal/taskdir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{
		taskdir.DefaultConfigFile,
		"." + taskdir.DefaultConfigFile,
		filepath.Join(taskdir.Dir, taskdir.DefaultConfigFile),
	}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.tasklist/tasklist.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, taskdir.Dir, taskdir.DefaultConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "tasklist", taskdir.DefaultConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.SchemaFile = ""
	cfg.LogDir = DefaultLogDir
	cfg.StrictImport = false
	cfg.DefaultSort = "default"
	cfg.DefaultFilter = "all"
	cfg.DefaultPriority = "medium"
	cfg.Journal = false
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// ConfigFile returns the config file with the highest precedence that was
// read, or "" when none was.
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Value returns the named field's current value formatted for display.
func (cws *ConfigWithSources) Value(field string) string {
	cfg := cws.Config
	switch field {
	case "data_file":
		return cfg.DataFile
	case "schema_file":
		return cfg.SchemaFile
	case "log_dir":
		return cfg.LogDir
	case "strict_import":
		return formatBool(cfg.StrictImport)
	case "default_sort":
		return cfg.DefaultSort
	case "default_filter":
		return cfg.DefaultFilter
	case "default_priority":
		return cfg.DefaultPriority
	case "journal":
		return formatBool(cfg.Journal)
	case "log_level":
		return cfg.LogLevel
	case "log_format":
		return cfg.LogFormat
	case "log_timestamps":
		return formatBool(cfg.LogTimestamps)
	case "log_caller":
		return formatBool(cfg.LogCaller)
	}
	return ""
}

// Fields returns the configurable field names in display order.
func (cws *ConfigWithSources) Fields() []string {
	return configFields()
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
