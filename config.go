// FILE: lixenwraith/qlog/config.go
package qlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
	"github.com/lixenwraith/qlog/sanitizer"
)

// Config holds all pipeline configuration values
type Config struct {
	// Basic settings
	Level           string `toml:"level"`            // error, warn, info, debug, trace
	TimestampFormat string `toml:"timestamp_format"` // Go time layout for record timestamps
	Sanitize        string `toml:"sanitize"`         // txt, escape, flat or raw

	// Console output
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"
	ConsoleLevel  string `toml:"console_level"`  // Empty inherits level
	Color         string `toml:"color"`          // auto, always or never

	// File output
	EnableFile bool   `toml:"enable_file"`
	Directory  string `toml:"directory"`
	Name       string `toml:"name"` // Base name for the log file
	Extension  string `toml:"extension"`
	FileLevel  string `toml:"file_level"` // Empty inherits level

	// Rotation, active when max_size_mb > 0
	MaxSizeMB  int64 `toml:"max_size_mb"`
	MaxBackups int64 `toml:"max_backups"`
	MaxAgeDays int64 `toml:"max_age_days"`
	Compress   bool  `toml:"compress"`

	// Queue sizing
	BufferSize    int64 `toml:"buffer_size"`     // Initial ring capacity in bytes
	MaxBufferSize int64 `toml:"max_buffer_size"` // Growth ceiling, 0 = unbounded
	ScratchSize   int64 `toml:"scratch_size"`    // Bytes handed to the sink per drain pass

	// Monitoring
	MonitorIntervalMs int64 `toml:"monitor_interval_ms"` // 0 disables the monitor
	Heartbeat         bool  `toml:"heartbeat"`           // Emit queue stats at trace level

	// Internal error handling
	InternalErrorsToStderr bool    `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
	InternalErrorRate      float64 `toml:"internal_error_rate"`       // Internal messages per second
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Level:           "info",
	TimestampFormat: DefaultTimestampFormat,
	Sanitize:        string(sanitizer.PolicyTxt),

	// Console output
	EnableConsole: true,
	ConsoleTarget: "stderr",
	ConsoleLevel:  "",
	Color:         "auto",

	// File output
	EnableFile: false,
	Directory:  "./logs",
	Name:       "app",
	Extension:  "log",
	FileLevel:  "",

	// Rotation
	MaxSizeMB:  0,
	MaxBackups: 5,
	MaxAgeDays: 0,
	Compress:   false,

	// Queue sizing
	BufferSize:    8 * 1024,
	MaxBufferSize: 0,
	ScratchSize:   64 * 1024,

	// Monitoring
	MonitorIntervalMs: 1000,
	Heartbeat:         false,

	// Internal error handling
	InternalErrorsToStderr: true,
	InternalErrorRate:      1.0,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from the [qlog] table of a TOML file
// and returns a validated Config. A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("qlog.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "qlog.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
// keyed by toml tag.
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies every registered key found by the loader into cfg
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("toml"); tag != "" {
			fieldMap[tag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Float64:
		switch v := value.(type) {
		case float64:
			field.SetFloat(v)
		case int64:
			field.SetFloat(float64(v))
		case int:
			field.SetFloat(float64(v))
		default:
			return fmt.Errorf("expected float64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate checks every field and cross-field constraint.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	for _, l := range []struct{ key, val string }{
		{"console_level", c.ConsoleLevel},
		{"file_level", c.FileLevel},
	} {
		if l.val == "" {
			continue
		}
		if _, err := ParseLevel(l.val); err != nil {
			return fmtErrorf("invalid %s: %w", l.key, err)
		}
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if !sanitizer.Valid(c.Sanitize) {
		return fmtErrorf("invalid sanitize policy: '%s' (use txt, escape, flat, or raw)", c.Sanitize)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.Color != "auto" && c.Color != "always" && c.Color != "never" {
		return fmtErrorf("invalid color: '%s' (use auto, always, or never)", c.Color)
	}

	if c.EnableFile && strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("log name cannot be empty")
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmtErrorf("rotation limits cannot be negative")
	}

	if c.BufferSize < 2 {
		return fmtErrorf("buffer_size must be at least 2: %d", c.BufferSize)
	}

	if c.ScratchSize <= 0 {
		return fmtErrorf("scratch_size must be positive: %d", c.ScratchSize)
	}

	if c.MaxBufferSize < 0 {
		return fmtErrorf("max_buffer_size cannot be negative: %d", c.MaxBufferSize)
	}

	if c.MaxBufferSize > 0 && c.MaxBufferSize < c.BufferSize {
		return fmtErrorf("max_buffer_size (%d) cannot be smaller than buffer_size (%d)",
			c.MaxBufferSize, c.BufferSize)
	}

	if c.MonitorIntervalMs < 0 {
		return fmtErrorf("monitor_interval_ms cannot be negative: %d", c.MonitorIntervalMs)
	}

	if c.Heartbeat && c.MonitorIntervalMs == 0 {
		return fmtErrorf("heartbeat requires monitor_interval_ms > 0")
	}

	if c.InternalErrorRate <= 0 {
		return fmtErrorf("internal_error_rate must be positive: %f", c.InternalErrorRate)
	}

	if !c.EnableConsole && !c.EnableFile {
		return fmtErrorf("at least one of enable_console or enable_file must be set")
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// level returns the parsed main level. Call after Validate.
func (c *Config) level() Level {
	l, _ := ParseLevel(c.Level)
	return l
}

// outputLevel returns the parsed per-output level, falling back to level.
func (c *Config) outputLevel(s string) Level {
	if s == "" {
		return c.level()
	}
	l, _ := ParseLevel(s)
	return l
}
