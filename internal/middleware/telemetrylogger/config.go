// internal/middleware/telemetrylogger/config.go
package telemetrylogger

// Config holds settings for the telemetry logger middleware.
type Config struct {
	// LogPersonalInformation controls whether message text, speak markup
	// and user names appear in telemetry properties. When false the keys
	// are still emitted with empty values so the property enumeration
	// stays fixed.
	LogPersonalInformation bool
}
