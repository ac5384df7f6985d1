// internal/bot/turncontext.go
package bot

import (
	"context"

	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/models"
)

// Sink delivers activities produced during a turn back to the channel. The
// HTTP host and the in-memory test adapter both implement it.
type Sink interface {
	Deliver(ctx context.Context, activities []*models.Activity) ([]*models.ResourceResponse, error)
	Replace(ctx context.Context, activity *models.Activity) error
	Remove(ctx context.Context, reference models.ConversationReference) error
}

// SendHandler intercepts outgoing activities. Calling next performs the
// actual delivery; a handler may inspect or modify activities before that.
type SendHandler func(ctx context.Context, tc *TurnContext, activities []*models.Activity, next func() ([]*models.ResourceResponse, error)) ([]*models.ResourceResponse, error)

// UpdateHandler intercepts activity updates.
type UpdateHandler func(ctx context.Context, tc *TurnContext, activity *models.Activity, next func() error) error

// DeleteHandler intercepts activity deletions.
type DeleteHandler func(ctx context.Context, tc *TurnContext, reference models.ConversationReference, next func() error) error

// TurnContext carries one inbound activity and the per-turn state through the
// middleware pipeline. It is not safe for use outside its turn.
type TurnContext struct {
	sink     Sink
	activity *models.Activity
	state    map[string]interface{}

	onSend   []SendHandler
	onUpdate []UpdateHandler
	onDelete []DeleteHandler

	responded bool
}

// NewTurnContext builds a turn context for one inbound activity.
func NewTurnContext(sink Sink, activity *models.Activity) (*TurnContext, error) {
	if sink == nil {
		return nil, errors.NewNilTurnContextError("sink")
	}
	if activity == nil {
		return nil, errors.NewNilTurnContextError("activity")
	}
	return &TurnContext{
		sink:     sink,
		activity: activity,
		state:    make(map[string]interface{}),
	}, nil
}

// Activity returns the inbound activity for this turn.
func (tc *TurnContext) Activity() *models.Activity {
	return tc.activity
}

// Responded reports whether any activity was delivered during this turn.
func (tc *TurnContext) Responded() bool {
	return tc.responded
}

// SetState stores a per-turn value. State lives for a single turn only.
func (tc *TurnContext) SetState(key string, value interface{}) {
	tc.state[key] = value
}

// GetState retrieves a per-turn value.
func (tc *TurnContext) GetState(key string) (interface{}, bool) {
	v, ok := tc.state[key]
	return v, ok
}

// OnSendActivities registers a handler invoked for every SendActivity call.
// Handlers run in registration order, each wrapping the next.
func (tc *TurnContext) OnSendActivities(handler SendHandler) {
	tc.onSend = append(tc.onSend, handler)
}

// OnUpdateActivity registers a handler invoked for every UpdateActivity call.
func (tc *TurnContext) OnUpdateActivity(handler UpdateHandler) {
	tc.onUpdate = append(tc.onUpdate, handler)
}

// OnDeleteActivity registers a handler invoked for every DeleteActivity call.
func (tc *TurnContext) OnDeleteActivity(handler DeleteHandler) {
	tc.onDelete = append(tc.onDelete, handler)
}

// SendActivity stamps conversation routing onto the given activities and
// delivers them through the registered send handlers and the sink.
func (tc *TurnContext) SendActivity(ctx context.Context, activities ...*models.Activity) ([]*models.ResourceResponse, error) {
	if len(activities) == 0 {
		return nil, nil
	}

	for _, a := range activities {
		if a.ChannelID == "" {
			a.ApplyConversation(tc.activity)
		}
	}

	deliver := func() ([]*models.ResourceResponse, error) {
		responses, err := tc.sink.Deliver(ctx, activities)
		if err == nil {
			tc.responded = true
		}
		return responses, err
	}

	// Handlers wrap delivery outermost-first.
	next := deliver
	for i := len(tc.onSend) - 1; i >= 0; i-- {
		handler := tc.onSend[i]
		inner := next
		next = func() ([]*models.ResourceResponse, error) {
			return handler(ctx, tc, activities, inner)
		}
	}

	return next()
}

// SendText delivers a single message activity with the given text.
func (tc *TurnContext) SendText(ctx context.Context, text string) (*models.ResourceResponse, error) {
	responses, err := tc.SendActivity(ctx, models.NewMessageActivity(text))
	if err != nil || len(responses) == 0 {
		return nil, err
	}
	return responses[0], nil
}

// UpdateActivity replaces a previously delivered activity.
func (tc *TurnContext) UpdateActivity(ctx context.Context, activity *models.Activity) error {
	if activity == nil {
		return errors.NewNilTurnContextError("activity")
	}

	update := func() error {
		return tc.sink.Replace(ctx, activity)
	}

	next := update
	for i := len(tc.onUpdate) - 1; i >= 0; i-- {
		handler := tc.onUpdate[i]
		inner := next
		next = func() error {
			return handler(ctx, tc, activity, inner)
		}
	}

	return next()
}

// DeleteActivity removes a previously delivered activity.
func (tc *TurnContext) DeleteActivity(ctx context.Context, reference models.ConversationReference) error {
	remove := func() error {
		return tc.sink.Remove(ctx, reference)
	}

	next := remove
	for i := len(tc.onDelete) - 1; i >= 0; i-- {
		handler := tc.onDelete[i]
		inner := next
		next = func() error {
			return handler(ctx, tc, reference, inner)
		}
	}

	return next()
}
