// internal/telemetry/client.go
package telemetry

import "context"

// Severity classifies trace telemetry.
type Severity string

const (
	SeverityInformation Severity = "Information"
	SeverityWarning     Severity = "Warning"
	SeverityError       Severity = "Error"
)

// Client is the telemetry sink contract the middleware writes to. Event
// names and property keys are a fixed string contract (see internal/models);
// implementations must forward them unchanged.
type Client interface {
	TrackEvent(ctx context.Context, name string, properties map[string]string) error
	TrackTrace(ctx context.Context, message string, severity Severity, properties map[string]string) error
	Flush(ctx context.Context) error
}

// NopClient discards all telemetry.
type NopClient struct{}

func (NopClient) TrackEvent(ctx context.Context, name string, properties map[string]string) error {
	return nil
}

func (NopClient) TrackTrace(ctx context.Context, message string, severity Severity, properties map[string]string) error {
	return nil
}

func (NopClient) Flush(ctx context.Context) error { return nil }
