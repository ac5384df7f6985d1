// internal/bot/adapter.go
package bot

import (
	"context"
	"time"

	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/common/metrics"
	"bot-middleware/internal/models"
)

// ActivityHandler is the bot logic invoked at the end of the pipeline.
type ActivityHandler func(ctx context.Context, tc *TurnContext) error

// Adapter runs inbound activities through the middleware chain and the bot
// logic. All concurrency is owned by the caller; the adapter runs each turn
// as sequential callbacks.
type Adapter struct {
	chain      *Chain
	logger     logger.Logger
	errHandler *errors.TurnErrorHandler
}

func NewAdapter(log logger.Logger) *Adapter {
	return &Adapter{
		chain:      &Chain{},
		logger:     log,
		errHandler: errors.NewTurnErrorHandler(log),
	}
}

// Use registers middleware. Registration order is invocation order.
func (a *Adapter) Use(mw ...Middleware) *Adapter {
	a.chain.Use(mw...)
	return a
}

// ProcessActivity runs one turn: middleware chain first, bot logic innermost.
// Errors are normalized, logged, counted and then propagated to the host.
func (a *Adapter) ProcessActivity(ctx context.Context, activity *models.Activity, sink Sink, handler ActivityHandler) error {
	start := time.Now()

	tc, err := NewTurnContext(sink, activity)
	if err != nil {
		return err
	}

	err = a.chain.Run(ctx, tc, func(ctx context.Context) error {
		if handler == nil {
			return nil
		}
		return handler(ctx, tc)
	})

	metrics.TurnDuration.WithLabelValues(activity.ChannelID).Observe(time.Since(start).Seconds())

	if err != nil {
		stdErr := a.errHandler.HandleTurnError(activity.Conversation.ID, activity.ID, err)
		metrics.TurnErrors.WithLabelValues(activity.ChannelID, string(stdErr.Code)).Inc()
		return stdErr
	}

	metrics.TurnsProcessed.WithLabelValues(activity.ChannelID).Inc()
	return nil
}
