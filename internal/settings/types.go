// Package settings merges the OTel exporter environment variables that
// editor AI plugins need into their settings.json, so telemetry flows to
// the local roitop receiver.
package settings

import "fmt"

// MergeResult classifies the outcome of a settings merge.
type MergeResult int

const (
	MergeSuccess MergeResult = iota
	MergeAlreadyConfigured
	MergeNeedsConfirmation
	MergeError
)

// MergeOptions controls how Merge operates.
type MergeOptions struct {
	// SettingsPath overrides the default plugin settings.json location.
	SettingsPath string

	// GRPCPort is the receiver's OTLP gRPC port. Zero means 4317.
	GRPCPort int

	// Interactive, when true, makes Merge return MergeNeedsConfirmation
	// instead of skipping keys whose values differ from the required ones.
	Interactive bool

	// FixPortOnly limits the merge to OTEL_EXPORTER_OTLP_ENDPOINT and
	// overwrites it unconditionally.
	FixPortOnly bool
}

// MergeOutput reports what Merge did.
type MergeOutput struct {
	Result   MergeResult
	Messages []string
	Warnings []string
	Err      error
}

// RequiredOTelEnv returns the environment variables an editor AI plugin
// needs to export OTLP telemetry to a local receiver on the given gRPC
// port.
func RequiredOTelEnv(grpcPort int) map[string]string {
	return map[string]string{
		"OTEL_METRICS_EXPORTER":       "otlp",
		"OTEL_LOGS_EXPORTER":          "otlp",
		"OTEL_EXPORTER_OTLP_PROTOCOL": "grpc",
		"OTEL_EXPORTER_OTLP_ENDPOINT": fmt.Sprintf("http://localhost:%d", grpcPort),
		"OTEL_METRIC_EXPORT_INTERVAL": "10000",
		"OTEL_RESOURCE_ATTRIBUTES":    "service.name=ai-assist",
	}
}
