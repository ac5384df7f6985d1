// internal/middleware/telemetrylogger/middleware.go
package telemetrylogger

import (
	"context"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
	"bot-middleware/internal/telemetry"
)

// Middleware logs telemetry events for received, sent, updated and deleted
// activities. A failing telemetry sink never fails the turn: the error is
// logged and the pipeline continues.
type Middleware struct {
	client telemetry.Client
	config *Config
	logger logger.Logger
}

func New(client telemetry.Client, config *Config, log logger.Logger) (*Middleware, error) {
	if client == nil {
		return nil, errors.NewNilTurnContextError("telemetry client")
	}
	if config == nil {
		config = &Config{}
	}
	return &Middleware{
		client: client,
		config: config,
		logger: log.WithFields(map[string]interface{}{"middleware": "telemetry-logger"}),
	}, nil
}

// OnTurn emits the received event for the inbound activity, registers the
// send/update/delete hooks, and continues the pipeline.
func (m *Middleware) OnTurn(ctx context.Context, tc *bot.TurnContext, next bot.NextFunc) error {
	if tc == nil {
		return errors.NewNilTurnContextError("turn context")
	}

	m.trackEvent(ctx, models.EventMsgReceived, m.receiveProperties(tc))

	tc.OnSendActivities(func(ctx context.Context, tc *bot.TurnContext, activities []*models.Activity, nextSend func() ([]*models.ResourceResponse, error)) ([]*models.ResourceResponse, error) {
		responses, err := nextSend()
		if err == nil {
			for _, activity := range activities {
				m.trackEvent(ctx, models.EventMsgSent, m.sendProperties(activity))
			}
		}
		return responses, err
	})

	tc.OnUpdateActivity(func(ctx context.Context, tc *bot.TurnContext, activity *models.Activity, nextUpdate func() error) error {
		err := nextUpdate()
		if err == nil {
			m.trackEvent(ctx, models.EventMsgUpdated, m.updateProperties(activity))
		}
		return err
	})

	tc.OnDeleteActivity(func(ctx context.Context, tc *bot.TurnContext, reference models.ConversationReference, nextDelete func() error) error {
		err := nextDelete()
		if err == nil {
			m.trackEvent(ctx, models.EventMsgDeleted, m.deleteProperties(reference))
		}
		return err
	})

	return next(ctx)
}

func (m *Middleware) trackEvent(ctx context.Context, event string, properties map[string]string) {
	if err := m.client.TrackEvent(ctx, event, properties); err != nil {
		m.logger.Warn("failed to track telemetry event", map[string]interface{}{
			"event": event,
			"error": err.Error(),
		})
	}
}
