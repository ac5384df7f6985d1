// internal/middleware/contentmoderation/middleware.go
package contentmoderation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/common/database"
	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/common/metrics"
	"bot-middleware/internal/models"
)

const cacheKeyPrefix = "moderation:"

// Screener screens one piece of text and returns the moderation verdict.
type Screener interface {
	ScreenText(ctx context.Context, text, language string) (*models.ScreenResult, error)
}

// Alerter notifies operators about content that needs human review.
type Alerter interface {
	NotifyFlagged(ctx context.Context, activity *models.Activity, result *models.ScreenResult) error
}

// Middleware screens inbound message text before the bot logic runs. The
// verdict is stashed in turn state under models.StateKeyScreenResult so later
// stages and the bot logic can act on it. Screening errors fail the turn.
type Middleware struct {
	screener Screener
	cache    *database.RedisClient
	alerter  Alerter
	config   *Config
	logger   logger.Logger
}

// New builds the middleware. cache and alerter are optional; a nil cache
// screens every message, a nil alerter disables review notifications.
func New(screener Screener, cache *database.RedisClient, alerter Alerter, config *Config, log logger.Logger) (*Middleware, error) {
	if screener == nil {
		return nil, errors.NewNilTurnContextError("screener")
	}
	if config == nil {
		config = &Config{}
	}
	return &Middleware{
		screener: screener,
		cache:    cache,
		alerter:  alerter,
		config:   config,
		logger:   log.WithFields(map[string]interface{}{"middleware": "content-moderation"}),
	}, nil
}

// OnTurn screens the inbound activity when it is a message with non-empty
// text, then continues the pipeline. Other activity types pass through
// untouched.
func (m *Middleware) OnTurn(ctx context.Context, tc *bot.TurnContext, next bot.NextFunc) error {
	if tc == nil {
		return errors.NewNilTurnContextError("turn context")
	}

	activity := tc.Activity()
	if !activity.IsMessage() || strings.TrimSpace(activity.Text) == "" {
		return next(ctx)
	}

	result, cached, err := m.screen(ctx, activity.Text)
	if err != nil {
		metrics.ModerationScreens.WithLabelValues("error").Inc()
		return err
	}

	tc.SetState(models.StateKeyScreenResult, result)

	switch {
	case cached:
		metrics.ModerationScreens.WithLabelValues("cached").Inc()
	case result.ReviewRecommended():
		metrics.ModerationScreens.WithLabelValues("flagged").Inc()
	default:
		metrics.ModerationScreens.WithLabelValues("clean").Inc()
	}

	if result.ReviewRecommended() {
		m.logger.Warn("message flagged for review", map[string]interface{}{
			"conversationId": activity.Conversation.ID,
			"activityId":     activity.ID,
			"terms":          len(result.Terms),
		})
		if m.config.AlertOnReview && m.alerter != nil {
			if alertErr := m.alerter.NotifyFlagged(ctx, activity, result); alertErr != nil {
				m.logger.Error("failed to send review alert", map[string]interface{}{
					"error": alertErr.Error(),
				})
			}
		}
	}

	return next(ctx)
}

// screen returns the verdict for the given text, reusing a cached verdict for
// identical text when available. Cache failures fall through to the API.
func (m *Middleware) screen(ctx context.Context, text string) (*models.ScreenResult, bool, error) {
	key := cacheKey(text)

	if m.cache != nil {
		if raw, err := m.cache.Get(ctx, key); err == nil {
			var result models.ScreenResult
			if err := json.Unmarshal([]byte(raw), &result); err == nil {
				return &result, true, nil
			}
		}
	}

	result, err := m.screener.ScreenText(ctx, text, m.config.Language)
	if err != nil {
		return nil, false, err
	}

	if m.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := m.cache.Set(ctx, key, raw, m.config.CacheTTL); err != nil {
				m.logger.Warn("failed to cache screen result", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return result, false, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
