// internal/clients/luis/client.go
package luis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bot-middleware/internal/common/errors"
	commonhttp "bot-middleware/internal/common/http"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

// Client calls a LUIS-compatible prediction endpoint. One Recognize call
// returns the intents and sentiment for one utterance.
type Client struct {
	config     *Config
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config:     config,
		httpClient: commonhttp.NewClient(config.Timeout),
		logger:     log.WithFields(map[string]interface{}{"client": "luis"}),
	}
}

// Recognize predicts intents and sentiment for the given utterance.
func (c *Client) Recognize(ctx context.Context, utterance string) (*models.RecognizerResult, error) {
	if strings.TrimSpace(utterance) == "" {
		return &models.RecognizerResult{Text: utterance, Intents: map[string]models.IntentScore{}}, nil
	}

	endpoint := fmt.Sprintf(
		"%s/luis/v2.0/apps/%s?subscription-key=%s&verbose=true&q=%s",
		strings.TrimSuffix(c.config.Endpoint, "/"),
		url.PathEscape(c.config.AppID),
		url.QueryEscape(c.config.APIKey),
		url.QueryEscape(utterance),
	)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction request: %w", err)
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() != nil || strings.Contains(strings.ToLower(err.Error()), "timeout") {
			return nil, errors.NewRecognizerTimeoutError()
		}
		return nil, errors.NewRecognizerFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, errors.NewAuthenticationError(
				fmt.Sprintf("recognizer rejected credentials: %s", string(body)))
		}
		return nil, errors.NewRecognizerFailedError(
			fmt.Errorf("recognizer returned %d: %s", resp.StatusCode, string(body)))
	}

	var wire predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, errors.NewRecognizerFailedError(
			fmt.Errorf("failed to decode prediction response: %w", err))
	}

	result := wire.toRecognizerResult()
	topIntent, topScore := result.TopIntent()
	c.logger.Debug("utterance recognized", map[string]interface{}{
		"intent": topIntent,
		"score":  topScore,
	})
	return result, nil
}
