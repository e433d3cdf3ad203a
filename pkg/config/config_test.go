package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codebridge/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codebridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultEngineWorkers, cfg.Engine.Workers)
	assert.Empty(t, cfg.Engine.Plugins)
	assert.Equal(t, config.DefaultEndpointAnnotations, cfg.Engine.EndpointAnnotations)
	assert.Empty(t, cfg.TypeMap.File)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLogFormat, cfg.Logging.Format)
	assert.InDelta(t, config.DefaultTelemetrySampleRatio, cfg.Telemetry.SampleRatio, 0.0001)
	assert.False(t, cfg.Telemetry.Prometheus)
	assert.Equal(t, slog.LevelInfo, cfg.Logging.SlogLevel())
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `engine:
  workers: 8
  plugins: [typemap, model]
  endpoint_annotations: [RestController]
typemap:
  file: types.yaml
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  otlp_headers: "api-key=abc"
  insecure: true
  sample_ratio: 0.25
  prometheus: true
`))
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, []string{"typemap", "model"}, cfg.Engine.Plugins)
	assert.Equal(t, []string{"RestController"}, cfg.Engine.EndpointAnnotations)
	assert.Equal(t, "types.yaml", cfg.TypeMap.File)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
	assert.Equal(t, config.FormatJSON, cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, "api-key=abc", cfg.Telemetry.OTLPHeaders)
	assert.True(t, cfg.Telemetry.Insecure)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 0.0001)
	assert.True(t, cfg.Telemetry.Prometheus)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("CODEBRIDGE_ENGINE_WORKERS", "3")
	t.Setenv("CODEBRIDGE_LOGGING_LEVEL", "warn")

	cfg, err := config.LoadConfig(writeConfig(t, "engine:\n  workers: 8\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Engine.Workers)
	assert.Equal(t, slog.LevelWarn, cfg.Logging.SlogLevel())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"negative workers", "engine:\n  workers: -1\n", config.ErrInvalidWorkers},
		{"unknown level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"unknown format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"ratio above one", "telemetry:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfig_Unreadable(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "engine: [unclosed"))
	require.Error(t, err)

	_, err = config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "an explicit path must exist")
}
