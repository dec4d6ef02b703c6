// FILE: lixenwraith/qlog/override.go
package qlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to a clone of c, validates the
// result and returns it. c itself is never modified. All malformed entries
// are reported together.
//
// Example:
//
//	cfg, err := qlog.DefaultConfig().ApplyOverride(
//	    "level=debug",
//	    "enable_file=true",
//	    "directory=/var/log/app",
//	)
func (c *Config) ApplyOverride(overrides ...string) (*Config, error) {
	cfg := c.Clone()

	var errs []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, combineConfigErrors(errs)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString(errorPrefix + "multiple configuration errors:")
	for i, err := range errs {
		errMsg := strings.TrimPrefix(err.Error(), errorPrefix)
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "level":
		cfg.Level = value
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "sanitize":
		cfg.Sanitize = value

	// Console output
	case "enable_console":
		return setBool(&cfg.EnableConsole, key, value)
	case "console_target":
		cfg.ConsoleTarget = value
	case "console_level":
		cfg.ConsoleLevel = value
	case "color":
		cfg.Color = value

	// File output
	case "enable_file":
		return setBool(&cfg.EnableFile, key, value)
	case "directory":
		cfg.Directory = value
	case "name":
		cfg.Name = value
	case "extension":
		cfg.Extension = value
	case "file_level":
		cfg.FileLevel = value

	// Rotation
	case "max_size_mb":
		return setInt(&cfg.MaxSizeMB, key, value)
	case "max_backups":
		return setInt(&cfg.MaxBackups, key, value)
	case "max_age_days":
		return setInt(&cfg.MaxAgeDays, key, value)
	case "compress":
		return setBool(&cfg.Compress, key, value)

	// Queue sizing
	case "buffer_size":
		return setInt(&cfg.BufferSize, key, value)
	case "max_buffer_size":
		return setInt(&cfg.MaxBufferSize, key, value)
	case "scratch_size":
		return setInt(&cfg.ScratchSize, key, value)

	// Monitoring
	case "monitor_interval_ms":
		return setInt(&cfg.MonitorIntervalMs, key, value)
	case "heartbeat":
		return setBool(&cfg.Heartbeat, key, value)

	// Internal error handling
	case "internal_errors_to_stderr":
		return setBool(&cfg.InternalErrorsToStderr, key, value)
	case "internal_error_rate":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmtErrorf("invalid float value for %s '%s': %w", key, value, err)
		}
		cfg.InternalErrorRate = floatVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}

func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}
