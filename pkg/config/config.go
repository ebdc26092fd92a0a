// Package config provides the unified configuration system for treescan.
// It defines a single Config structure shared by the library and the CLI,
// organized into logical sections:
//
//   - Limits: hard bounds on requested columns, column-name length, and
//     line length
//   - Scan: chunked-read tuning and destination buffer sizing
//   - Logging: structured logging settings
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Scan.InitialCapacity = 4096
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/cosmoforge/treescan/pkg/errors"
)

// Config is the single configuration structure used across treescan.
type Config struct {
	// Limits bound the shape of a single catalog and request set
	Limits LimitsConfig `yaml:"limits" json:"limits"`

	// Scan controls chunked reading and destination buffer growth
	Scan ScanConfig `yaml:"scan" json:"scan"`

	// Logging configures the structured logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LimitsConfig contains hard bounds checked at destination-map build time.
// These replace the compile-time maximums of older tree readers with
// runtime-checked limits.
type LimitsConfig struct {
	// MaxColumns is the maximum number of requested columns
	MaxColumns int `yaml:"max_columns" json:"max_columns"`
	// MaxNameLen is the maximum length of a single column name
	MaxNameLen int `yaml:"max_name_len" json:"max_name_len"`
	// MaxLineBytes is the maximum length of one catalog line, header
	// lines included
	MaxLineBytes int `yaml:"max_line_bytes" json:"max_line_bytes"`
}

// ScanConfig contains tree-scanning and buffer growth settings.
type ScanConfig struct {
	// InitialCapacity is the starting row capacity for destination
	// buffers created by the scanner (must be > 0)
	InitialCapacity int64 `yaml:"initial_capacity" json:"initial_capacity"`
	// ChunkBytes is the size of one positional read; 0 selects
	// 4 * MaxLineBytes
	ChunkBytes int `yaml:"chunk_bytes" json:"chunk_bytes"`
	// MemoryLimitMB caps total destination buffer memory across all
	// slots; 0 means unlimited
	MemoryLimitMB int64 `yaml:"memory_limit_mb" json:"memory_limit_mb"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Encoding is the log output format (json or console)
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables human-friendly output and stack traces
	Development bool `yaml:"development" json:"development"`
}

// Default returns a Config with production defaults. The limits mirror
// what Consistent-Trees catalogs need in practice: names up to 64 bytes
// and lines up to 1024 bytes.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxColumns:   128,
			MaxNameLen:   64,
			MaxLineBytes: 1024,
		},
		Scan: ScanConfig{
			InitialCapacity: 1024,
			ChunkBytes:      0,
			MemoryLimitMB:   0,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// EffectiveChunkBytes returns the positional read size, deriving it from
// the line limit when unset.
func (c *Config) EffectiveChunkBytes() int {
	if c.Scan.ChunkBytes > 0 {
		return c.Scan.ChunkBytes
	}
	return 4 * c.Limits.MaxLineBytes
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Limits.MaxColumns <= 0 {
		return errors.Newf(errors.ErrorTypeConfig, "max_columns must be positive, got %d", c.Limits.MaxColumns)
	}
	if c.Limits.MaxNameLen < 64 {
		// Some Consistent-Trees column names are long
		return errors.Newf(errors.ErrorTypeConfig, "max_name_len must be at least 64, got %d", c.Limits.MaxNameLen)
	}
	if c.Limits.MaxLineBytes <= 0 {
		return errors.Newf(errors.ErrorTypeConfig, "max_line_bytes must be positive, got %d", c.Limits.MaxLineBytes)
	}
	if c.Scan.InitialCapacity <= 0 {
		return errors.Newf(errors.ErrorTypeConfig, "initial_capacity must be positive, got %d", c.Scan.InitialCapacity)
	}
	if c.Scan.ChunkBytes < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "chunk_bytes must not be negative, got %d", c.Scan.ChunkBytes)
	}
	if c.Scan.ChunkBytes > 0 && c.Scan.ChunkBytes < c.Limits.MaxLineBytes {
		return errors.Newf(errors.ErrorTypeConfig,
			"chunk_bytes (%d) must be at least max_line_bytes (%d)",
			c.Scan.ChunkBytes, c.Limits.MaxLineBytes)
	}
	if c.Scan.MemoryLimitMB < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "memory_limit_mb must not be negative, got %d", c.Scan.MemoryLimitMB)
	}
	return nil
}
