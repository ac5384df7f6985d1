// internal/host/logic_test.go
package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/dialogs/skill"
	"bot-middleware/internal/models"
)

type scriptedSkill struct {
	// turns maps the forwarded utterance to the skill's replies.
	turns map[string][]*models.Activity
}

func (s *scriptedSkill) PostActivity(ctx context.Context, activity *models.Activity) ([]*models.Activity, error) {
	return s.turns[activity.Text], nil
}

type fixedRecognizer struct {
	result *models.RecognizerResult
}

func (f *fixedRecognizer) Recognize(ctx context.Context, utterance string) (*models.RecognizerResult, error) {
	return f.result, nil
}

func TestOnTurn_EchoesByDefault(t *testing.T) {
	logic := NewLogic(nil, nil, "Echo: %s", logger.NewTestLogger(t))

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), logic.OnTurn)
	require.NoError(t, ta.Send(context.Background(), "hello"))

	reply := ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "Echo: hello", reply.Text)
}

func TestOnTurn_IgnoresNonMessageActivities(t *testing.T) {
	logic := NewLogic(nil, nil, "Echo: %s", logger.NewTestLogger(t))

	ta := bot.NewTestAdapter(logger.NewTestLogger(t), logic.OnTurn)
	require.NoError(t, ta.ProcessActivity(context.Background(), &models.Activity{
		Type: models.ActivityTypeConversationUpdate,
	}))

	assert.Nil(t, ta.NextReply())
}

func TestOnTurn_SkillConversation(t *testing.T) {
	caller := &scriptedSkill{turns: map[string][]*models.Activity{
		"skill": {models.NewMessageActivity("What can I help you with?")},
		"end": {
			models.NewMessageActivity("Goodbye!"),
			models.NewEndOfConversationActivity(models.EndOfConversationCompleted),
		},
	}}
	dialog, err := skill.NewDialog(caller, logger.NewNoOpLogger())
	require.NoError(t, err)

	logic := NewLogic(nil, dialog, "Echo: %s", logger.NewTestLogger(t))
	ta := bot.NewTestAdapter(logger.NewTestLogger(t), logic.OnTurn)
	ctx := context.Background()

	// The trigger utterance hands the conversation to the skill.
	require.NoError(t, ta.Send(ctx, "skill"))
	reply := ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "What can I help you with?", reply.Text)

	// Follow-ups keep going to the skill, not the echo handler.
	require.NoError(t, ta.Send(ctx, "end"))
	reply = ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "Goodbye!", reply.Text)

	trace := ta.NextReply()
	require.NotNil(t, trace)
	assert.Equal(t, models.ActivityTypeTrace, trace.Type)
	assert.Equal(t, skill.EndingMessage, trace.Text)

	// The skill ended, so the next message is echoed again.
	require.NoError(t, ta.Send(ctx, "hello again"))
	reply = ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "Echo: hello again", reply.Text)
}

func TestOnTurn_RecognizerIntentTriggersSkill(t *testing.T) {
	caller := &scriptedSkill{turns: map[string][]*models.Activity{
		"talk to the skill please": {models.NewMessageActivity("Skill here.")},
	}}
	dialog, err := skill.NewDialog(caller, logger.NewNoOpLogger())
	require.NoError(t, err)

	recognizer := &fixedRecognizer{result: &models.RecognizerResult{
		Intents: map[string]models.IntentScore{
			SkillIntent: {Score: 0.85},
		},
	}}

	logic := NewLogic(recognizer, dialog, "Echo: %s", logger.NewTestLogger(t))
	ta := bot.NewTestAdapter(logger.NewTestLogger(t), logic.OnTurn)

	require.NoError(t, ta.Send(context.Background(), "talk to the skill please"))

	reply := ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "Skill here.", reply.Text)
}

func TestOnTurn_LowConfidenceIntentEchoes(t *testing.T) {
	dialog, err := skill.NewDialog(&scriptedSkill{}, logger.NewNoOpLogger())
	require.NoError(t, err)

	recognizer := &fixedRecognizer{result: &models.RecognizerResult{
		Intents: map[string]models.IntentScore{
			SkillIntent: {Score: 0.2},
		},
	}}

	logic := NewLogic(recognizer, dialog, "Echo: %s", logger.NewTestLogger(t))
	ta := bot.NewTestAdapter(logger.NewTestLogger(t), logic.OnTurn)

	require.NoError(t, ta.Send(context.Background(), "mumble"))

	reply := ta.NextReply()
	require.NotNil(t, reply)
	assert.Equal(t, "Echo: mumble", reply.Text)
}
