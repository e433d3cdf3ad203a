package config

// Engine defaults.
const (
	DefaultEngineWorkers = 0
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = FormatText
)

// Telemetry defaults.
const (
	DefaultTelemetryInsecure    = false
	DefaultTelemetrySampleRatio = 1.0
	DefaultTelemetryPrometheus  = false
)

// Endpoint defaults.
var DefaultEndpointAnnotations = []string{"Endpoint", "BrowserCallable"}
