// internal/bot/adapter_test.go
package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

func orderMiddleware(name string, order *[]string) Middleware {
	return MiddlewareFunc(func(ctx context.Context, tc *TurnContext, next NextFunc) error {
		*order = append(*order, name+"-before")
		err := next(ctx)
		*order = append(*order, name+"-after")
		return err
	})
}

func TestAdapter_MiddlewareRunsInRegistrationOrder(t *testing.T) {
	var order []string

	handler := func(ctx context.Context, tc *TurnContext) error {
		order = append(order, "bot")
		return nil
	}

	ta := NewTestAdapter(logger.NewTestLogger(t), handler,
		orderMiddleware("outer", &order),
		orderMiddleware("inner", &order),
	)

	require.NoError(t, ta.Send(context.Background(), "hi"))
	assert.Equal(t, []string{"outer-before", "inner-before", "bot", "inner-after", "outer-after"}, order)
}

func TestAdapter_MiddlewareCanShortCircuit(t *testing.T) {
	var botRan bool

	handler := func(ctx context.Context, tc *TurnContext) error {
		botRan = true
		return nil
	}

	blocker := MiddlewareFunc(func(ctx context.Context, tc *TurnContext, next NextFunc) error {
		// Intentionally does not call next.
		return nil
	})

	ta := NewTestAdapter(logger.NewTestLogger(t), handler, blocker)

	require.NoError(t, ta.Send(context.Background(), "hi"))
	assert.False(t, botRan)
}

func TestAdapter_HandlerErrorPropagatesNormalized(t *testing.T) {
	handler := func(ctx context.Context, tc *TurnContext) error {
		return fmt.Errorf("boom")
	}

	ta := NewTestAdapter(logger.NewNoOpLogger(), handler)

	err := ta.Send(context.Background(), "hi")
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "boom", stdErr.Details)
}

func TestAdapter_StandardErrorPassesThroughUnchanged(t *testing.T) {
	handler := func(ctx context.Context, tc *TurnContext) error {
		return commonerrors.NewModerationTimeoutError()
	}

	ta := NewTestAdapter(logger.NewNoOpLogger(), handler)

	err := ta.Send(context.Background(), "hi")
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeModerationTimeout, stdErr.Code)
}

func TestTestAdapter_EchoConversation(t *testing.T) {
	handler := func(ctx context.Context, tc *TurnContext) error {
		_, err := tc.SendText(ctx, "Echo: "+tc.Activity().Text)
		return err
	}

	ta := NewTestAdapter(logger.NewTestLogger(t), handler)
	ctx := context.Background()

	require.NoError(t, ta.Send(ctx, "hello"))
	reply := ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, models.ActivityTypeMessage, reply.Type)
	assert.Equal(t, "Echo: hello", reply.Text)

	require.NoError(t, ta.Send(ctx, "again"))
	reply = ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "Echo: again", reply.Text)

	assert.Nil(t, ta.NextReply())
}
