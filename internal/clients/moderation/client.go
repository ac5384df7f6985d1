// internal/clients/moderation/client.go
package moderation

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

// Client calls the content moderation REST API. One ScreenText call screens
// one piece of text for profanity terms, personal data and classification
// scores.
type Client struct {
	config     *Config
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config:     config,
		httpClient: commonhttp.NewClient(config.Timeout),
		logger:     log.WithFields(map[string]interface{}{"client": "moderation"}),
	}
}

// ScreenText screens the given text and returns the moderation verdict.
// The language parameter falls back to the configured default when empty.
func (c *Client) ScreenText(ctx context.Context, text, language string) (*models.ScreenResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewActivityInvalidError("screen text is empty")
	}
	if language == "" {
		language = c.config.Language
	}

	endpoint := fmt.Sprintf(
		"%s/contentmoderator/moderate/v1.0/ProcessText/Screen?autocorrect=%t&PII=%t&classify=%t&language=%s",
		strings.TrimSuffix(c.config.BaseURL, "/"),
		c.config.AutoCorrect, c.config.PII, c.config.Classify,
		url.QueryEscape(language),
	)

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to create screen request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.config.APIKey)

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() != nil || strings.Contains(strings.ToLower(err.Error()), "timeout") {
			return nil, errors.NewModerationTimeoutError()
		}
		return nil, errors.NewModerationScreenFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, c.mapStatusError(resp.StatusCode, string(body))
	}

	var wire screenResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, errors.NewModerationScreenFailedError(
			fmt.Errorf("failed to decode screen response: %w", err))
	}

	result := wire.toScreenResult(text)
	c.logger.Debug("text screened", map[string]interface{}{
		"trackingId":        result.TrackingID,
		"terms":             len(result.Terms),
		"reviewRecommended": result.ReviewRecommended(),
	})
	return result, nil
}

func (c *Client) mapStatusError(statusCode int, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewAuthenticationError(
			fmt.Sprintf("moderation API rejected credentials: %s", body))
	case http.StatusTooManyRequests:
		return errors.NewModerationQuotaError(body)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return errors.NewModerationTimeoutError()
	default:
		return errors.NewModerationScreenFailedError(
			fmt.Errorf("moderation API returned %d: %s", statusCode, body))
	}
}
