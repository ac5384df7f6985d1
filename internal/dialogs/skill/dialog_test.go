// internal/dialogs/skill/dialog_test.go
package skill

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot-middleware/internal/bot"
	commonerrors "bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

type fakeCaller struct {
	received []*models.Activity
	replies  []*models.Activity
	err      error
}

func (f *fakeCaller) PostActivity(ctx context.Context, activity *models.Activity) ([]*models.Activity, error) {
	f.received = append(f.received, activity)
	return f.replies, f.err
}

type staticTokens struct{ token string }

func (s staticTokens) Token(ctx context.Context) (string, error) { return s.token, nil }

func runDialogTurn(t *testing.T, dialog *Dialog, text string) (bool, *bot.TestAdapter, error) {
	var ended bool
	var dialogErr error
	handler := func(ctx context.Context, tc *bot.TurnContext) error {
		ended, dialogErr = dialog.ContinueDialog(ctx, tc)
		return dialogErr
	}

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), handler)
	err := ta.Send(context.Background(), text)
	return ended, ta, err
}

func TestContinueDialog_RelaysSkillReplies(t *testing.T) {
	caller := &fakeCaller{replies: []*models.Activity{
		models.NewMessageActivity("What can I help you with?"),
	}}
	dialog, err := NewDialog(caller, logger.NewNoOpLogger())
	require.NoError(t, err)

	ended, ta, err := runDialogTurn(t, dialog, "skill")
	require.NoError(t, err)
	assert.False(t, ended)

	require.Len(t, caller.received, 1)
	assert.Equal(t, "skill", caller.received[0].Text)

	reply := ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "What can I help you with?", reply.Text)
	assert.Nil(t, ta.NextReply())
}

func TestContinueDialog_EndOfConversationEmitsSingleTrace(t *testing.T) {
	caller := &fakeCaller{replies: []*models.Activity{
		models.NewMessageActivity("Goodbye!"),
		models.NewEndOfConversationActivity(models.EndOfConversationCompleted),
	}}
	dialog, err := NewDialog(caller, logger.NewNoOpLogger())
	require.NoError(t, err)

	ended, ta, err := runDialogTurn(t, dialog, "end")
	require.NoError(t, err)
	assert.True(t, ended)

	goodbye := ta.NextReply()
	require.NotNil(t, goodbye)
	assert.Equal(t, "Goodbye!", goodbye.Text)

	trace := ta.NextReply()
	require.NotNil(t, trace)
	assert.Equal(t, models.ActivityTypeTrace, trace.Type)
	assert.Equal(t, "<--Ending the skill conversation", trace.Text)

	// The endOfConversation itself is consumed, and only one trace follows.
	assert.Nil(t, ta.NextReply())
}

func TestContinueDialog_CallerErrorPropagates(t *testing.T) {
	caller := &fakeCaller{err: commonerrors.NewSkillRequestFailedError(assert.AnError)}
	dialog, err := NewDialog(caller, logger.NewNoOpLogger())
	require.NoError(t, err)

	_, _, err = runDialogTurn(t, dialog, "skill")
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeSkillRequestFailed, stdErr.Code)
}

func TestNewDialog_NilCallerRejected(t *testing.T) {
	_, err := NewDialog(nil, logger.NewNoOpLogger())
	require.Error(t, err)
}

func TestClient_PostActivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/messages", r.URL.Path)
		assert.Equal(t, "Bearer skill-token", r.Header.Get("Authorization"))

		var inbound models.Activity
		require.NoError(t, json.NewDecoder(r.Body).Decode(&inbound))
		assert.Equal(t, "hello skill", inbound.Text)

		reply := models.NewMessageActivity("hello from the skill")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]*models.Activity{reply})
	}))
	defer server.Close()

	client := NewClient(&Config{Endpoint: server.URL, Timeout: 5 * time.Second},
		staticTokens{token: "skill-token"}, logger.NewTestLogger(t))

	replies, err := client.PostActivity(context.Background(), models.NewMessageActivity("hello skill"))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "hello from the skill", replies[0].Text)
}

func TestClient_PostActivity_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(&Config{Endpoint: server.URL, Timeout: 5 * time.Second},
		staticTokens{token: "expired"}, logger.NewTestLogger(t))

	_, err := client.PostActivity(context.Background(), models.NewMessageActivity("hi"))
	require.Error(t, err)

	stdErr, ok := err.(*commonerrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeSkillAuthFailed, stdErr.Code)
}
