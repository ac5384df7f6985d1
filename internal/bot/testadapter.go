// internal/bot/testadapter.go
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

// TestAdapter drives scripted conversations fully in memory. It plays the
// role of the channel: inbound activities are processed through the pipeline
// and every delivered reply is queued for assertion.
type TestAdapter struct {
	adapter *Adapter
	handler ActivityHandler

	conversation models.ConversationAccount
	user         models.ChannelAccount
	bot          models.ChannelAccount

	mu      sync.Mutex
	replies []*models.Activity
}

// NewTestAdapter builds a test adapter around the given bot logic and
// middleware, with fixed test conversation identities.
func NewTestAdapter(log logger.Logger, handler ActivityHandler, mw ...Middleware) *TestAdapter {
	adapter := NewAdapter(log)
	adapter.Use(mw...)

	return &TestAdapter{
		adapter:      adapter,
		handler:      handler,
		conversation: models.ConversationAccount{ID: "Conversation1", Name: "Test Conversation"},
		user:         models.ChannelAccount{ID: "user1", Name: "User1", Role: "user"},
		bot:          models.ChannelAccount{ID: "bot", Name: "Bot", Role: "bot"},
	}
}

// Send builds an inbound user message with the given text and processes it.
func (ta *TestAdapter) Send(ctx context.Context, text string) error {
	return ta.ProcessActivity(ctx, &models.Activity{
		Type: models.ActivityTypeMessage,
		Text: text,
	})
}

// ProcessActivity stamps test routing onto the activity and runs one turn.
func (ta *TestAdapter) ProcessActivity(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}
	activity.ChannelID = "test"
	activity.Conversation = ta.conversation
	activity.From = ta.user
	activity.Recipient = ta.bot
	if activity.Locale == "" {
		activity.Locale = "en-us"
	}

	return ta.adapter.ProcessActivity(ctx, activity, ta, ta.handler)
}

// Deliver implements Sink, queueing each activity as a channel reply.
func (ta *TestAdapter) Deliver(ctx context.Context, activities []*models.Activity) ([]*models.ResourceResponse, error) {
	ta.mu.Lock()
	defer ta.mu.Unlock()

	responses := make([]*models.ResourceResponse, 0, len(activities))
	for _, a := range activities {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		ta.replies = append(ta.replies, a)
		responses = append(responses, &models.ResourceResponse{ID: a.ID})
	}
	return responses, nil
}

// Replace implements Sink, swapping a queued reply in place by id.
func (ta *TestAdapter) Replace(ctx context.Context, activity *models.Activity) error {
	ta.mu.Lock()
	defer ta.mu.Unlock()

	for i, a := range ta.replies {
		if a.ID == activity.ID {
			ta.replies[i] = activity
			return nil
		}
	}
	return nil
}

// Remove implements Sink, dropping a queued reply by reference.
func (ta *TestAdapter) Remove(ctx context.Context, reference models.ConversationReference) error {
	ta.mu.Lock()
	defer ta.mu.Unlock()

	for i, a := range ta.replies {
		if a.ID == reference.ActivityID {
			ta.replies = append(ta.replies[:i], ta.replies[i+1:]...)
			return nil
		}
	}
	return nil
}

// NextReply pops the oldest queued reply, or nil when none is pending.
func (ta *TestAdapter) NextReply() *models.Activity {
	ta.mu.Lock()
	defer ta.mu.Unlock()

	if len(ta.replies) == 0 {
		return nil
	}
	reply := ta.replies[0]
	ta.replies = ta.replies[1:]
	return reply
}
