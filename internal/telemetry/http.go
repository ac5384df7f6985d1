// internal/telemetry/http.go
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"bot-middleware/internal/common/errors"
	commonhttp "bot-middleware/internal/common/http"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/common/metrics"
)

const sinkNameTrack = "track"

// envelope is the wire format accepted by the track ingestion endpoint.
type envelope struct {
	Name string       `json:"name"`
	Time string       `json:"time"`
	IKey string       `json:"iKey"`
	Data envelopeData `json:"data"`
}

type envelopeData struct {
	BaseType string       `json:"baseType"`
	BaseData envelopeBody `json:"baseData"`
}

type envelopeBody struct {
	Name       string            `json:"name,omitempty"`
	Message    string            `json:"message,omitempty"`
	Severity   string            `json:"severityLevel,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// TrackClientConfig holds settings for the track ingestion client.
type TrackClientConfig struct {
	IngestionURL       string
	InstrumentationKey string
	BatchSize          int
	Timeout            time.Duration
}

// TrackClient buffers telemetry and posts envelope batches to an
// Application-Insights-compatible track endpoint.
type TrackClient struct {
	config     *TrackClientConfig
	httpClient *commonhttp.Client
	logger     logger.Logger

	mu     sync.Mutex
	buffer []envelope
}

func NewTrackClient(config *TrackClientConfig, log logger.Logger) *TrackClient {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &TrackClient{
		config:     config,
		httpClient: commonhttp.NewClient(config.Timeout),
		logger:     log.WithFields(map[string]interface{}{"sink": sinkNameTrack}),
	}
}

func (c *TrackClient) TrackEvent(ctx context.Context, name string, properties map[string]string) error {
	metrics.TelemetryEventsTracked.WithLabelValues(name, sinkNameTrack).Inc()
	return c.enqueue(ctx, envelope{
		Name: "Microsoft.ApplicationInsights.Event",
		Time: time.Now().UTC().Format(time.RFC3339Nano),
		IKey: c.config.InstrumentationKey,
		Data: envelopeData{
			BaseType: "EventData",
			BaseData: envelopeBody{Name: name, Properties: properties},
		},
	})
}

func (c *TrackClient) TrackTrace(ctx context.Context, message string, severity Severity, properties map[string]string) error {
	return c.enqueue(ctx, envelope{
		Name: "Microsoft.ApplicationInsights.Message",
		Time: time.Now().UTC().Format(time.RFC3339Nano),
		IKey: c.config.InstrumentationKey,
		Data: envelopeData{
			BaseType: "MessageData",
			BaseData: envelopeBody{Message: message, Severity: string(severity), Properties: properties},
		},
	})
}

// enqueue buffers the envelope and posts the batch once it reaches BatchSize.
func (c *TrackClient) enqueue(ctx context.Context, e envelope) error {
	c.mu.Lock()
	c.buffer = append(c.buffer, e)
	shouldFlush := len(c.buffer) >= c.config.BatchSize
	c.mu.Unlock()

	if shouldFlush {
		return c.Flush(ctx)
	}
	return nil
}

// Flush posts all buffered envelopes. The buffer is dropped before posting;
// a failed batch is not retried here, the caller decides.
func (c *TrackClient) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.buffer
	c.buffer = nil
	c.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry batch: %w", err)
	}

	req, err := http.NewRequest("POST", c.config.IngestionURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create track request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		metrics.TelemetryTrackFailures.WithLabelValues(sinkNameTrack).Inc()
		return errors.NewTelemetryFlushFailedError(sinkNameTrack, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		metrics.TelemetryTrackFailures.WithLabelValues(sinkNameTrack).Inc()
		return errors.NewTelemetryFlushFailedError(sinkNameTrack,
			fmt.Errorf("track endpoint returned %d: %s", resp.StatusCode, string(respBody)))
	}

	c.logger.Debug("telemetry batch flushed", map[string]interface{}{
		"envelopes": len(batch),
	})
	return nil
}
