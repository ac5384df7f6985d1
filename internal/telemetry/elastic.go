// internal/telemetry/elastic.go
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bot-middleware/internal/common/database"
	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/common/metrics"
)

const sinkNameElastic = "elasticsearch"

// ElasticSink indexes telemetry events into an Elasticsearch index so they
// can be queried alongside the rest of the analytics data.
type ElasticSink struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

type eventDocument struct {
	Event      string            `json:"event,omitempty"`
	Message    string            `json:"message,omitempty"`
	Severity   string            `json:"severity,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Timestamp  string            `json:"@timestamp"`
}

func NewElasticSink(es *database.ElasticsearchClient, index string, log logger.Logger) *ElasticSink {
	return &ElasticSink{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"sink": sinkNameElastic}),
	}
}

func (s *ElasticSink) TrackEvent(ctx context.Context, name string, properties map[string]string) error {
	metrics.TelemetryEventsTracked.WithLabelValues(name, sinkNameElastic).Inc()
	return s.indexDoc(ctx, eventDocument{
		Event:      name,
		Properties: properties,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *ElasticSink) TrackTrace(ctx context.Context, message string, severity Severity, properties map[string]string) error {
	return s.indexDoc(ctx, eventDocument{
		Message:    message,
		Severity:   string(severity),
		Properties: properties,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Flush is a no-op: documents are indexed synchronously.
func (s *ElasticSink) Flush(ctx context.Context) error { return nil }

func (s *ElasticSink) indexDoc(ctx context.Context, doc eventDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry document: %w", err)
	}

	if err := s.es.IndexDocument(ctx, s.index, body); err != nil {
		metrics.TelemetryTrackFailures.WithLabelValues(sinkNameElastic).Inc()
		return errors.NewTelemetryTrackFailedError(sinkNameElastic, err)
	}
	return nil
}
