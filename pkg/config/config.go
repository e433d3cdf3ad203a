// Package config loads codebridge configuration from a YAML file and
// CODEBRIDGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers     = errors.New("engine workers must not be negative")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const envPrefix = "CODEBRIDGE"

// Config holds all codebridge configuration.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	TypeMap   TypeMapConfig   `mapstructure:"typemap"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// EngineConfig selects plugins and bounds pass concurrency.
type EngineConfig struct {
	// Workers is the per-pass concurrency; zero means one per CPU.
	Workers int `mapstructure:"workers"`
	// Plugins selects built-in plugins by name, in pass order. Empty runs all.
	Plugins []string `mapstructure:"plugins"`
	// EndpointAnnotations marks Java endpoint classes.
	EndpointAnnotations []string `mapstructure:"endpoint_annotations"`
}

// TypeMapConfig points at an optional type-map override file.
type TypeMapConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Insecure     bool    `mapstructure:"insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Prometheus   bool    `mapstructure:"prometheus"`
}

// SlogLevel returns the parsed logging level.
func (c LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level

	// Validated by LoadConfig; unknown names fall back to info.
	_ = level.UnmarshalText([]byte(c.Level))

	return level
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches ./codebridge.yaml and
// $HOME/.config/codebridge/codebridge.yaml;
// a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("codebridge")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/codebridge")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("engine.workers", DefaultEngineWorkers)
	viperCfg.SetDefault("engine.plugins", []string{})
	viperCfg.SetDefault("engine.endpoint_annotations", DefaultEndpointAnnotations)

	viperCfg.SetDefault("typemap.file", "")

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.insecure", DefaultTelemetryInsecure)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
	viperCfg.SetDefault("telemetry.prometheus", DefaultTelemetryPrometheus)
}

func validateConfig(config *Config) error {
	if config.Engine.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Engine.Workers)
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(config.Logging.Level))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if config.Logging.Format != FormatText && config.Logging.Format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
