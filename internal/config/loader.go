package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "runlens"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "RUNLENS"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader. It uses the global viper
// instance so cobra flag bindings are honored.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load loads configuration from files, environment variables and defaults,
// then validates it.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Get returns a raw value from the configuration.
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "runlens"))
	}
	l.v.AddConfigPath("/etc/runlens")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

func (l *Loader) setDefaults() {
	def := DefaultConfig()

	l.v.SetDefault("log_level", def.LogLevel)
	l.v.SetDefault("verbose", def.Verbose)

	l.v.SetDefault("extractor.label_threshold", def.Extractor.LabelThreshold)
	l.v.SetDefault("extractor.proximity_decay_lines", def.Extractor.ProximityDecayLines)
	l.v.SetDefault("extractor.closeness_weight", def.Extractor.ClosenessWeight)
	l.v.SetDefault("extractor.strength_weight", def.Extractor.StrengthWeight)
	l.v.SetDefault("extractor.roi_bonus", def.Extractor.ROIBonus)
	l.v.SetDefault("extractor.top_overlay_ratio", def.Extractor.TopOverlayRatio)

	l.v.SetDefault("extractor.distance.bounds.min", def.Extractor.Distance.Bounds.Min)
	l.v.SetDefault("extractor.distance.bounds.max", def.Extractor.Distance.Bounds.Max)
	l.v.SetDefault("extractor.distance.unit_weight", def.Extractor.Distance.UnitWeight)
	l.v.SetDefault("extractor.distance.recover_high_weight", def.Extractor.Distance.RecoverHighWeight)
	l.v.SetDefault("extractor.distance.recover_low_weight", def.Extractor.Distance.RecoverLowWeight)
	l.v.SetDefault("extractor.distance.overlay_penalty", def.Extractor.Distance.OverlayPenalty)

	l.v.SetDefault("extractor.duration.bounds.min", def.Extractor.Duration.Bounds.Min)
	l.v.SetDefault("extractor.duration.bounds.max", def.Extractor.Duration.Bounds.Max)
	l.v.SetDefault("extractor.duration.base_weight", def.Extractor.Duration.BaseWeight)
	l.v.SetDefault("extractor.duration.clock_penalty", def.Extractor.Duration.ClockPenalty)
	l.v.SetDefault("extractor.duration.overlay_penalty", def.Extractor.Duration.OverlayPenalty)
	l.v.SetDefault("extractor.duration.status_penalty", def.Extractor.Duration.StatusPenalty)

	l.v.SetDefault("extractor.pace.bounds.min", def.Extractor.Pace.Bounds.Min)
	l.v.SetDefault("extractor.pace.bounds.max", def.Extractor.Pace.Bounds.Max)
	l.v.SetDefault("extractor.pace.unit_weight", def.Extractor.Pace.UnitWeight)
	l.v.SetDefault("extractor.pace.context_weight", def.Extractor.Pace.ContextWeight)

	l.v.SetDefault("extractor.avg_hr.bounds.min", def.Extractor.AvgHR.Bounds.Min)
	l.v.SetDefault("extractor.avg_hr.bounds.max", def.Extractor.AvgHR.Bounds.Max)
	l.v.SetDefault("extractor.avg_hr.unit_weight", def.Extractor.AvgHR.UnitWeight)
	l.v.SetDefault("extractor.avg_hr.context_weight", def.Extractor.AvgHR.ContextWeight)

	l.v.SetDefault("extractor.calories.bounds.min", def.Extractor.Calories.Bounds.Min)
	l.v.SetDefault("extractor.calories.bounds.max", def.Extractor.Calories.Bounds.Max)
	l.v.SetDefault("extractor.calories.unit_weight", def.Extractor.Calories.UnitWeight)
	l.v.SetDefault("extractor.calories.context_weight", def.Extractor.Calories.ContextWeight)

	l.v.SetDefault("extractor.combine.top_candidates", def.Extractor.Combine.TopCandidates)
	l.v.SetDefault("extractor.combine.missing_penalty", def.Extractor.Combine.MissingPenalty)
	l.v.SetDefault("extractor.combine.derived_valid_bonus", def.Extractor.Combine.DerivedValidBonus)
	l.v.SetDefault("extractor.combine.consistency_cap", def.Extractor.Combine.ConsistencyCap)
	l.v.SetDefault("extractor.combine.consistency_slope", def.Extractor.Combine.ConsistencySlope)
	l.v.SetDefault("extractor.combine.consistency_floor", def.Extractor.Combine.ConsistencyFloor)
	l.v.SetDefault("extractor.combine.derived_use_bonus", def.Extractor.Combine.DerivedUseBonus)

	l.v.SetDefault("ensemble.max_workers", def.Ensemble.MaxWorkers)

	l.v.SetDefault("output.format", def.Output.Format)
	l.v.SetDefault("output.file", def.Output.File)

	l.v.SetDefault("server.host", def.Server.Host)
	l.v.SetDefault("server.port", def.Server.Port)
	l.v.SetDefault("server.cors_origin", def.Server.CORSOrigin)
	l.v.SetDefault("server.max_body_kb", def.Server.MaxBodyKB)
	l.v.SetDefault("server.timeout_sec", def.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)

	l.v.SetDefault("batch.workers", def.Batch.Workers)
	l.v.SetDefault("batch.pattern", def.Batch.Pattern)
	l.v.SetDefault("batch.watch", def.Batch.Watch)

	l.v.SetDefault("history.path", def.History.Path)
}
