// Package config loads CLI configuration for mdcite from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kweiss/go-mdcite/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrOutOfRange     = errors.New("value out of range")
)

// Field limits.
const (
	MaxPathLength = 4096 // Filesystem limit on most platforms

	MinContextLines = 0
	MaxContextLines = 1000
	MinContextChars = 0
	MaxContextChars = 100000
	MinViewportDim  = 100
	MaxViewportDim  = 10000
	MinTimeoutSec   = 1
	MaxTimeoutSec   = 600
)

// Config holds all configuration for citation extraction.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Context ContextConfig `yaml:"context"`
	Render  RenderConfig  `yaml:"render"`
	Workers int           `yaml:"workers"` // 0 = auto (GOMAXPROCS-based)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = temp files)
}

// ContextConfig defines how much surrounding text is captured.
type ContextConfig struct {
	Chars int `yaml:"chars"` // Characters on each side of a located passage (0 = default)
	Lines int `yaml:"lines"` // Lines on each side for line-based lookups (0 = default)
}

// RenderConfig defines browser rendering options.
type RenderConfig struct {
	ViewportWidth  int `yaml:"viewportWidth"`  // 0 = default (794, A4 at 96 DPI)
	ViewportHeight int `yaml:"viewportHeight"` // 0 = default (1123)
	TimeoutSec     int `yaml:"timeoutSec"`     // 0 = default (30)
}

// Load reads and validates a config file. An empty path returns a zero
// Config with no error, so the CLI works without a config file.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field lengths and numeric ranges. Zero values mean
// "use the default" and always pass.
func (c Config) Validate() error {
	if len(c.Output.DefaultDir) > MaxPathLength {
		return fmt.Errorf("%w: output.defaultDir", ErrFieldTooLong)
	}
	if err := checkRange("context.chars", c.Context.Chars, MinContextChars, MaxContextChars); err != nil {
		return err
	}
	if err := checkRange("context.lines", c.Context.Lines, MinContextLines, MaxContextLines); err != nil {
		return err
	}
	if err := checkOptionalRange("render.viewportWidth", c.Render.ViewportWidth, MinViewportDim, MaxViewportDim); err != nil {
		return err
	}
	if err := checkOptionalRange("render.viewportHeight", c.Render.ViewportHeight, MinViewportDim, MaxViewportDim); err != nil {
		return err
	}
	if err := checkOptionalRange("render.timeoutSec", c.Render.TimeoutSec, MinTimeoutSec, MaxTimeoutSec); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrOutOfRange)
	}
	return nil
}

// checkRange validates that v lies in [lo, hi].
func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s = %d (must be between %d and %d)", ErrOutOfRange, field, v, lo, hi)
	}
	return nil
}

// checkOptionalRange is checkRange but treats zero as "use the default".
func checkOptionalRange(field string, v, lo, hi int) error {
	if v == 0 {
		return nil
	}
	return checkRange(field, v, lo, hi)
}
