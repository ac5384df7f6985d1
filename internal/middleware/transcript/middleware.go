// internal/middleware/transcript/middleware.go
package transcript

import (
	"context"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/common/metrics"
	"bot-middleware/internal/models"
)

// Middleware records every inbound and outbound activity to the transcript
// store. Persistence is best-effort: a failed insert is logged and counted
// but never fails the turn.
type Middleware struct {
	store  *Store
	logger logger.Logger
}

func New(store *Store, log logger.Logger) (*Middleware, error) {
	if store == nil {
		return nil, errors.NewNilTurnContextError("transcript store")
	}
	return &Middleware{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"middleware": "transcript"}),
	}, nil
}

// OnTurn records the inbound activity, hooks outbound sends, and continues.
func (m *Middleware) OnTurn(ctx context.Context, tc *bot.TurnContext, next bot.NextFunc) error {
	if tc == nil {
		return errors.NewNilTurnContextError("turn context")
	}

	m.record(ctx, tc.Activity(), DirectionInbound)

	tc.OnSendActivities(func(ctx context.Context, tc *bot.TurnContext, activities []*models.Activity, nextSend func() ([]*models.ResourceResponse, error)) ([]*models.ResourceResponse, error) {
		responses, err := nextSend()
		if err == nil {
			for _, activity := range activities {
				m.record(ctx, activity, DirectionOutbound)
			}
		}
		return responses, err
	})

	return next(ctx)
}

func (m *Middleware) record(ctx context.Context, activity *models.Activity, direction string) {
	if err := m.store.InsertActivity(ctx, activity, direction); err != nil {
		metrics.TranscriptInserts.WithLabelValues("error").Inc()
		m.logger.Warn("failed to record transcript activity", map[string]interface{}{
			"activityId": activity.ID,
			"direction":  direction,
			"error":      err.Error(),
		})
		return
	}
	metrics.TranscriptInserts.WithLabelValues("ok").Inc()
}
