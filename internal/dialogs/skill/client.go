// internal/dialogs/skill/client.go
package skill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bot-middleware/internal/common/errors"
	commonhttp "bot-middleware/internal/common/http"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

// Caller forwards one activity to a skill and returns the skill's replies.
type Caller interface {
	PostActivity(ctx context.Context, activity *models.Activity) ([]*models.Activity, error)
}

// TokenSource supplies bearer tokens for skill requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config holds the skill endpoint settings.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client posts activities to a remote skill over HTTP with bearer
// authentication. The skill replies synchronously with zero or more
// activities.
type Client struct {
	config     *Config
	tokens     TokenSource
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(config *Config, tokens TokenSource, log logger.Logger) *Client {
	return &Client{
		config:     config,
		tokens:     tokens,
		httpClient: commonhttp.NewClient(config.Timeout),
		logger:     log.WithFields(map[string]interface{}{"client": "skill"}),
	}
}

// PostActivity forwards the activity and decodes the reply batch.
func (c *Client) PostActivity(ctx context.Context, activity *models.Activity) ([]*models.Activity, error) {
	body, err := json.Marshal(activity)
	if err != nil {
		return nil, errors.NewSkillRequestFailedError(
			fmt.Errorf("failed to marshal activity %s: %w", activity.ID, err))
	}

	req, err := http.NewRequest("POST", strings.TrimSuffix(c.config.Endpoint, "/")+"/api/messages", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewSkillRequestFailedError(
			fmt.Errorf("failed to create skill request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, errors.NewSkillRequestFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errors.NewSkillAuthFailedError(
			fmt.Sprintf("skill rejected credentials with status %d: %s", resp.StatusCode, string(respBody)))
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errors.NewSkillRequestFailedError(
			fmt.Errorf("skill returned %d: %s", resp.StatusCode, string(respBody)))
	}

	var replies []*models.Activity
	if err := json.NewDecoder(resp.Body).Decode(&replies); err != nil {
		return nil, errors.NewSkillRequestFailedError(
			fmt.Errorf("failed to decode skill replies: %w", err))
	}

	c.logger.Debug("skill replied", map[string]interface{}{
		"activityId": activity.ID,
		"replies":    len(replies),
	})
	return replies, nil
}
