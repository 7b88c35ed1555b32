package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// Config represents the complete configuration for the runlens application.
// It includes settings for all commands (parse, batch, serve, entries) and
// supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Extraction engine tuning (weights, thresholds, plausibility bounds)
	Extractor extract.Config `mapstructure:"extractor" yaml:"extractor" json:"extractor"`

	// Ensemble selection over text variants
	Ensemble EnsembleConfig `mapstructure:"ensemble" yaml:"ensemble" json:"ensemble"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Workout history store
	History HistoryConfig `mapstructure:"history" yaml:"history" json:"history"`
}

// EnsembleConfig contains settings for the best-of-N variant selection.
type EnsembleConfig struct {
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxBodyKB       int64  `mapstructure:"max_body_kb" yaml:"max_body_kb" json:"max_body_kb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	Pattern string `mapstructure:"pattern" yaml:"pattern" json:"pattern"`
	Watch   bool   `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// HistoryConfig contains workout history persistence settings.
type HistoryConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

// DefaultConfig returns a configuration with documented defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		Verbose:   false,
		Extractor: extract.DefaultConfig(),
		Ensemble:  EnsembleConfig{MaxWorkers: 4},
		Output:    OutputConfig{Format: "json"},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxBodyKB:       256,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
		Batch:   BatchConfig{Workers: 4, Pattern: "*.txt"},
		History: HistoryConfig{Path: "runlens.db"},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log_level %q (use debug, info, warn, error)", c.LogLevel))
	}
	switch c.Output.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("invalid output.format %q (use json or text)", c.Output.Format))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid server.port %d", c.Server.Port))
	}
	if c.Server.MaxBodyKB <= 0 {
		errs = append(errs, "server.max_body_kb must be positive")
	}
	if c.Batch.Workers <= 0 {
		errs = append(errs, "batch.workers must be positive")
	}
	if c.Extractor.LabelThreshold < 0 || c.Extractor.LabelThreshold > 1 {
		errs = append(errs, "extractor.label_threshold must be within [0,1]")
	}
	for name, b := range map[string]extract.Bounds{
		"distance": c.Extractor.Distance.Bounds,
		"duration": c.Extractor.Duration.Bounds,
		"pace":     c.Extractor.Pace.Bounds,
		"avg_hr":   c.Extractor.AvgHR.Bounds,
		"calories": c.Extractor.Calories.Bounds,
	} {
		if b.Min > b.Max {
			errs = append(errs, fmt.Sprintf("extractor.%s.bounds min exceeds max", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
