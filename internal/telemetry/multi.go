// internal/telemetry/multi.go
package telemetry

import (
	"context"

	"bot-middleware/internal/common/logger"
)

// Fanout forwards telemetry to several sinks. A failing sink is logged and
// skipped; the remaining sinks still receive the event.
type Fanout struct {
	sinks  []Client
	logger logger.Logger
}

func NewFanout(log logger.Logger, sinks ...Client) *Fanout {
	return &Fanout{sinks: sinks, logger: log}
}

func (f *Fanout) TrackEvent(ctx context.Context, name string, properties map[string]string) error {
	for _, sink := range f.sinks {
		if err := sink.TrackEvent(ctx, name, properties); err != nil {
			f.logger.Warn("telemetry sink rejected event", map[string]interface{}{
				"event": name,
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (f *Fanout) TrackTrace(ctx context.Context, message string, severity Severity, properties map[string]string) error {
	for _, sink := range f.sinks {
		if err := sink.TrackTrace(ctx, message, severity, properties); err != nil {
			f.logger.Warn("telemetry sink rejected trace", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (f *Fanout) Flush(ctx context.Context) error {
	var lastErr error
	for _, sink := range f.sinks {
		if err := sink.Flush(ctx); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
