package instrumentation

import (
	"fmt"
	"io"
)

// Label values and exporter names
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// ServiceReminders is the automated application
	ServiceReminders = "reminders"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Config selects the telemetry exporters. It is built by the CLI from the
// server configuration; the zero value is a disabled provider.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Enabled turns metrics and tracing on
	Enabled bool

	// MetricsExporter is prometheus, otlp or stdout
	MetricsExporter string

	// TracingExporter is otlp, stdout or none
	TracingExporter string

	// OTLPEndpoint is host:port of an OTLP/HTTP collector
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based ratio between 0 and 1
	TraceSamplingRate float64

	// DetailedLabels adds the list name to tool metrics
	DetailedLabels bool

	// ConsoleWriter receives stdout exporter output (default: os.Stdout).
	// Under the stdio transport stdout is the protocol stream.
	ConsoleWriter io.Writer
}

// AuditLoggingConfig controls the per-invocation audit log.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludePII logs reminder titles and list names in full
	IncludePII bool
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch c.MetricsExporter {
	case ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case ExporterOTLP, ExporterStdout, ExporterNone, "":
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) && c.OTLPEndpoint == "" {
		return fmt.Errorf("an OTLP endpoint is required when an exporter is set to otlp")
	}

	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %g", c.TraceSamplingRate)
	}

	return nil
}
