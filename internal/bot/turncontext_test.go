// internal/bot/turncontext_test.go
package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

func newInboundMessage(text string) *models.Activity {
	return &models.Activity{
		Type:         models.ActivityTypeMessage,
		ID:           "in-1",
		ChannelID:    "test",
		Text:         text,
		Locale:       "en-us",
		From:         models.ChannelAccount{ID: "user1", Name: "User1"},
		Recipient:    models.ChannelAccount{ID: "bot", Name: "Bot"},
		Conversation: models.ConversationAccount{ID: "Conversation1", Name: "Test Conversation"},
	}
}

func TestNewTurnContext_NilGuards(t *testing.T) {
	ta := NewTestAdapter(logger.NewNoOpLogger(), nil)

	_, err := NewTurnContext(nil, newInboundMessage("hi"))
	require.Error(t, err)
	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeNilTurnContext, stdErr.Code)

	_, err = NewTurnContext(ta, nil)
	require.Error(t, err)
	stdErr, ok = err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeNilTurnContext, stdErr.Code)
}

func TestTurnContext_State(t *testing.T) {
	ta := NewTestAdapter(logger.NewNoOpLogger(), nil)
	tc, err := NewTurnContext(ta, newInboundMessage("hi"))
	require.NoError(t, err)

	_, ok := tc.GetState("missing")
	assert.False(t, ok)

	tc.SetState("key", "value")
	v, ok := tc.GetState("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestTurnContext_SendActivity_StampsReplyRouting(t *testing.T) {
	ta := NewTestAdapter(logger.NewNoOpLogger(), nil)
	inbound := newInboundMessage("hi")
	tc, err := NewTurnContext(ta, inbound)
	require.NoError(t, err)

	responses, err := tc.SendActivity(context.Background(), models.NewMessageActivity("hello"))
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.True(t, tc.Responded())

	reply := ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "hello", reply.Text)
	assert.Equal(t, inbound.ChannelID, reply.ChannelID)
	assert.Equal(t, inbound.Conversation.ID, reply.Conversation.ID)
	assert.Equal(t, inbound.From.ID, reply.Recipient.ID)
	assert.Equal(t, inbound.Recipient.ID, reply.From.ID)
	assert.Equal(t, inbound.ID, reply.ReplyToID)
	assert.Equal(t, inbound.Locale, reply.Locale)
}

func TestTurnContext_SendHandlers_WrapDeliveryInOrder(t *testing.T) {
	ta := NewTestAdapter(logger.NewNoOpLogger(), nil)
	tc, err := NewTurnContext(ta, newInboundMessage("hi"))
	require.NoError(t, err)

	var order []string
	tc.OnSendActivities(func(ctx context.Context, tc *TurnContext, activities []*models.Activity, next func() ([]*models.ResourceResponse, error)) ([]*models.ResourceResponse, error) {
		order = append(order, "first-before")
		responses, err := next()
		order = append(order, "first-after")
		return responses, err
	})
	tc.OnSendActivities(func(ctx context.Context, tc *TurnContext, activities []*models.Activity, next func() ([]*models.ResourceResponse, error)) ([]*models.ResourceResponse, error) {
		order = append(order, "second-before")
		responses, err := next()
		order = append(order, "second-after")
		return responses, err
	})

	_, err = tc.SendText(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []string{"first-before", "second-before", "second-after", "first-after"}, order)
}

func TestTurnContext_UpdateAndDeleteHandlers(t *testing.T) {
	ta := NewTestAdapter(logger.NewNoOpLogger(), nil)
	tc, err := NewTurnContext(ta, newInboundMessage("hi"))
	require.NoError(t, err)

	response, err := tc.SendText(context.Background(), "original")
	require.NoError(t, err)
	require.NotNil(t, response)

	var updateSeen, deleteSeen bool
	tc.OnUpdateActivity(func(ctx context.Context, tc *TurnContext, activity *models.Activity, next func() error) error {
		updateSeen = true
		return next()
	})
	tc.OnDeleteActivity(func(ctx context.Context, tc *TurnContext, reference models.ConversationReference, next func() error) error {
		deleteSeen = true
		return next()
	})

	updated := models.NewMessageActivity("updated")
	updated.ID = response.ID
	require.NoError(t, tc.UpdateActivity(context.Background(), updated))
	assert.True(t, updateSeen)

	require.NoError(t, tc.DeleteActivity(context.Background(), models.ConversationReference{ActivityID: response.ID}))
	assert.True(t, deleteSeen)

	assert.Nil(t, ta.NextReply())
}

func TestTurnContext_UpdateActivity_NilGuard(t *testing.T) {
	ta := NewTestAdapter(logger.NewNoOpLogger(), nil)
	tc, err := NewTurnContext(ta, newInboundMessage("hi"))
	require.NoError(t, err)

	err = tc.UpdateActivity(context.Background(), nil)
	require.Error(t, err)
}
