package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teemow/reminders-mcp/internal/instrumentation"
	"github.com/teemow/reminders-mcp/internal/logging"
	"github.com/teemow/reminders-mcp/internal/osascript"
)

// Supported transports
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Environment variables read by ApplyEnv
const (
	EnvTransport = "REMINDERS_TRANSPORT"
	EnvHTTPAddr  = "REMINDERS_HTTP_ADDR"
	EnvReadOnly  = "REMINDERS_READ_ONLY"
	EnvOsascript = "REMINDERS_OSASCRIPT"
	EnvTimeout   = "REMINDERS_TIMEOUT"
	EnvLogLevel  = "REMINDERS_LOG_LEVEL"
	EnvLogFormat = "REMINDERS_LOG_FORMAT"

	EnvMetricsEnabled = "METRICS_ENABLED"
	EnvMetricsAddr    = "METRICS_ADDR"

	EnvTelemetryEnabled = "INSTRUMENTATION_ENABLED"
	EnvMetricsExporter  = "METRICS_EXPORTER"
	EnvTracingExporter  = "TRACING_EXPORTER"
	EnvOTLPEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvTraceSampleRate  = "OTEL_TRACES_SAMPLER_ARG"
	EnvDetailedLabels   = "METRICS_DETAILED_LABELS"
	EnvAuditEnabled     = "AUDIT_LOGGING_ENABLED"
	EnvAuditIncludePII  = "AUDIT_LOGGING_INCLUDE_PII"
)

// Config holds the server settings
type Config struct {
	// Transport is stdio (default) or streamable-http
	Transport string `yaml:"transport" toml:"transport"`

	// HTTPAddr is the listen address of the streamable-http transport
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`

	// DisableStreaming turns off SSE streaming on the HTTP transport
	DisableStreaming bool `yaml:"disable_streaming" toml:"disable_streaming"`

	// ReadOnly rejects the mutating tools
	ReadOnly bool `yaml:"read_only" toml:"read_only"`

	// Osascript is the executable that runs AppleScript
	Osascript string `yaml:"osascript" toml:"osascript"`

	// Timeout bounds each osascript run, as a Go duration ("30s", "1m")
	Timeout string `yaml:"timeout" toml:"timeout"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogFormat is text or json
	LogFormat string `yaml:"log_format" toml:"log_format"`

	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`

	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled starts the Prometheus server on a dedicated port (HTTP transport only)
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string `yaml:"addr" toml:"addr"`
}

// TelemetryConfig selects the OpenTelemetry exporters and the audit log
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// MetricsExporter is prometheus, otlp or stdout
	MetricsExporter string `yaml:"metrics_exporter" toml:"metrics_exporter"`

	// TracingExporter is otlp, stdout or none
	TracingExporter string `yaml:"tracing_exporter" toml:"tracing_exporter"`

	OTLPEndpoint string `yaml:"otlp_endpoint" toml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure" toml:"otlp_insecure"`

	TraceSampleRate float64 `yaml:"trace_sample_rate" toml:"trace_sample_rate"`

	// DetailedLabels adds list names to tool metrics
	DetailedLabels bool `yaml:"detailed_labels" toml:"detailed_labels"`

	Audit           bool `yaml:"audit" toml:"audit"`
	AuditIncludePII bool `yaml:"audit_include_pii" toml:"audit_include_pii"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Transport: TransportStdio,
		HTTPAddr:  ":8080",
		Osascript: osascript.DefaultCommand,
		Timeout:   osascript.DefaultTimeout.String(),
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Telemetry: TelemetryConfig{
			Enabled:         true,
			MetricsExporter: instrumentation.ExporterPrometheus,
			TracingExporter: instrumentation.ExporterNone,
			TraceSampleRate: 0.1,
			Audit:           true,
		},
	}
}

// Load returns the defaults overlaid with the file at path.
// An empty path returns the defaults. The decoder is chosen by extension.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config file extension %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. Unparseable
// booleans are reported rather than ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strVars := map[string]*string{
		EnvTransport:   &c.Transport,
		EnvHTTPAddr:    &c.HTTPAddr,
		EnvOsascript:   &c.Osascript,
		EnvTimeout:     &c.Timeout,
		EnvLogLevel:    &c.LogLevel,
		EnvLogFormat:   &c.LogFormat,
		EnvMetricsAddr: &c.Metrics.Addr,

		EnvMetricsExporter: &c.Telemetry.MetricsExporter,
		EnvTracingExporter: &c.Telemetry.TracingExporter,
		EnvOTLPEndpoint:    &c.Telemetry.OTLPEndpoint,
	}
	for key, field := range strVars {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}

	boolVars := map[string]*bool{
		EnvReadOnly:       &c.ReadOnly,
		EnvMetricsEnabled: &c.Metrics.Enabled,

		EnvTelemetryEnabled: &c.Telemetry.Enabled,
		EnvOTLPInsecure:     &c.Telemetry.OTLPInsecure,
		EnvDetailedLabels:   &c.Telemetry.DetailedLabels,
		EnvAuditEnabled:     &c.Telemetry.Audit,
		EnvAuditIncludePII:  &c.Telemetry.AuditIncludePII,
	}
	var errs []error
	for key, field := range boolVars {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s value %q (expected true/false)", key, v))
			continue
		}
		*field = parsed
	}

	if v, ok := lookup(EnvTraceSampleRate); ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s value %q (expected a number)", EnvTraceSampleRate, v))
		} else {
			c.Telemetry.TraceSampleRate = rate
		}
	}

	return errors.Join(errs...)
}

// Instrumentation returns the provider settings for this configuration.
func (c *Config) Instrumentation(version string) instrumentation.Config {
	return instrumentation.Config{
		ServiceName:       "reminders-mcp",
		ServiceVersion:    version,
		Enabled:           c.Telemetry.Enabled,
		MetricsExporter:   c.Telemetry.MetricsExporter,
		TracingExporter:   c.Telemetry.TracingExporter,
		OTLPEndpoint:      c.Telemetry.OTLPEndpoint,
		OTLPInsecure:      c.Telemetry.OTLPInsecure,
		TraceSamplingRate: c.Telemetry.TraceSampleRate,
		DetailedLabels:    c.Telemetry.DetailedLabels,
	}
}

// AuditLogging returns the audit logger settings.
func (c *Config) AuditLogging() instrumentation.AuditLoggingConfig {
	return instrumentation.AuditLoggingConfig{
		Enabled:    c.Telemetry.Audit,
		IncludePII: c.Telemetry.AuditIncludePII,
	}
}

// InvocationTimeout parses Timeout. An empty value means the default.
func (c *Config) InvocationTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return osascript.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", c.Transport)
	}

	if c.Transport == TransportStreamableHTTP && c.HTTPAddr == "" {
		return fmt.Errorf("http address is required for the streamable-http transport")
	}

	if c.Osascript == "" {
		return fmt.Errorf("osascript command must not be empty")
	}

	if _, err := c.InvocationTimeout(); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.LogFormat)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics address is required when metrics are enabled")
	}

	if err := c.Instrumentation("").Validate(); err != nil {
		return fmt.Errorf("invalid telemetry settings: %w", err)
	}

	return nil
}
