// internal/telemetry/telemetry_test.go
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot-middleware/internal/common/logger"
)

func TestMemoryClient_RecordsEventsAndTraces(t *testing.T) {
	client := NewMemoryClient()
	ctx := context.Background()

	require.NoError(t, client.TrackEvent(ctx, "BotMsgReceived", map[string]string{"channelId": "test"}))
	require.NoError(t, client.TrackTrace(ctx, "hello", SeverityInformation, nil))
	require.NoError(t, client.Flush(ctx))

	events := client.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "BotMsgReceived", events[0].Name)
	assert.Equal(t, "test", events[0].Properties["channelId"])

	traces := client.Traces()
	require.Len(t, traces, 1)
	assert.Equal(t, "hello", traces[0].Message)
	assert.Equal(t, SeverityInformation, traces[0].Severity)

	assert.Equal(t, 1, client.Flushes())
}

func TestTrackClient_FlushPostsEnvelopeBatch(t *testing.T) {
	var received []envelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTrackClient(&TrackClientConfig{
		IngestionURL:       server.URL,
		InstrumentationKey: "ikey-123",
		BatchSize:          10,
		Timeout:            5 * time.Second,
	}, logger.NewTestLogger(t))

	ctx := context.Background()
	require.NoError(t, client.TrackEvent(ctx, "BotMsgSent", map[string]string{"text": "hi"}))
	require.NoError(t, client.TrackTrace(ctx, "turn done", SeverityInformation, nil))
	require.NoError(t, client.Flush(ctx))

	require.Len(t, received, 2)
	assert.Equal(t, "Microsoft.ApplicationInsights.Event", received[0].Name)
	assert.Equal(t, "ikey-123", received[0].IKey)
	assert.Equal(t, "EventData", received[0].Data.BaseType)
	assert.Equal(t, "BotMsgSent", received[0].Data.BaseData.Name)
	assert.Equal(t, "hi", received[0].Data.BaseData.Properties["text"])
	assert.Equal(t, "MessageData", received[1].Data.BaseType)
	assert.Equal(t, "turn done", received[1].Data.BaseData.Message)
}

func TestTrackClient_AutoFlushesAtBatchSize(t *testing.T) {
	var posts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTrackClient(&TrackClientConfig{
		IngestionURL: server.URL,
		BatchSize:    2,
	}, logger.NewTestLogger(t))

	ctx := context.Background()
	require.NoError(t, client.TrackEvent(ctx, "BotMsgReceived", nil))
	assert.Equal(t, 0, posts)
	require.NoError(t, client.TrackEvent(ctx, "BotMsgSent", nil))
	assert.Equal(t, 1, posts)
}

func TestTrackClient_FlushErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewTrackClient(&TrackClientConfig{
		IngestionURL: server.URL,
		BatchSize:    10,
	}, logger.NewNoOpLogger())

	ctx := context.Background()
	require.NoError(t, client.TrackEvent(ctx, "BotMsgReceived", nil))
	err := client.Flush(ctx)
	require.Error(t, err)
}

func TestTrackClient_FlushEmptyBufferIsNoop(t *testing.T) {
	client := NewTrackClient(&TrackClientConfig{
		IngestionURL: "http://127.0.0.1:1", // would fail if contacted
	}, logger.NewNoOpLogger())

	require.NoError(t, client.Flush(context.Background()))
}

type failingSink struct{}

func (failingSink) TrackEvent(ctx context.Context, name string, properties map[string]string) error {
	return fmt.Errorf("sink down")
}

func (failingSink) TrackTrace(ctx context.Context, message string, severity Severity, properties map[string]string) error {
	return fmt.Errorf("sink down")
}

func (failingSink) Flush(ctx context.Context) error { return fmt.Errorf("sink down") }

func TestFanout_FailingSinkDoesNotBlockOthers(t *testing.T) {
	memory := NewMemoryClient()
	fanout := NewFanout(logger.NewNoOpLogger(), failingSink{}, memory)

	ctx := context.Background()
	require.NoError(t, fanout.TrackEvent(ctx, "BotMsgReceived", nil))
	require.NoError(t, fanout.TrackTrace(ctx, "msg", SeverityWarning, nil))

	assert.Len(t, memory.Events(), 1)
	assert.Len(t, memory.Traces(), 1)

	// Flush surfaces the last sink error.
	require.Error(t, fanout.Flush(ctx))
}
