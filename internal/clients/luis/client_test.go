// internal/clients/luis/client_test.go
package luis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
)

const predictionResponseBody = `{
	"query": "book a flight to paris",
	"topScoringIntent": {"intent": "BookFlight", "score": 0.92},
	"intents": [
		{"intent": "BookFlight", "score": 0.92},
		{"intent": "None", "score": 0.04}
	],
	"sentimentAnalysis": {"label": "positive", "score": 0.81}
}`

func newTestClient(t *testing.T, serverURL string) *Client {
	return NewClient(&Config{
		Endpoint: serverURL,
		AppID:    "app-123",
		APIKey:   "luis-key",
		Timeout:  5 * time.Second,
	}, logger.NewTestLogger(t))
}

func TestRecognize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/luis/v2.0/apps/app-123", r.URL.Path)
		assert.Equal(t, "luis-key", r.URL.Query().Get("subscription-key"))
		assert.Equal(t, "book a flight to paris", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(predictionResponseBody))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.Recognize(context.Background(), "book a flight to paris")
	require.NoError(t, err)

	intent, score := result.TopIntent()
	assert.Equal(t, "BookFlight", intent)
	assert.InDelta(t, 0.92, score, 0.0001)

	require.NotNil(t, result.Sentiment)
	assert.Equal(t, "positive", result.Sentiment.Label)
	assert.InDelta(t, 0.81, result.Sentiment.Score, 0.0001)
}

func TestRecognize_EmptyUtteranceSkipsCall(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1") // would fail if contacted

	result, err := client.Recognize(context.Background(), "  ")
	require.NoError(t, err)

	intent, score := result.TopIntent()
	assert.Equal(t, "", intent)
	assert.Equal(t, 0.0, score)
	assert.Nil(t, result.Sentiment)
}

func TestRecognize_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Recognize(context.Background(), "hello")
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeAuthentication, stdErr.Code)
}

func TestRecognize_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Recognize(context.Background(), "hello")
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeRecognizerFailed, stdErr.Code)
}
