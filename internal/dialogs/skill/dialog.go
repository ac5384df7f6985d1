// internal/dialogs/skill/dialog.go
package skill

import (
	"context"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/models"
)

// EndingMessage is the trace text emitted exactly once when the skill ends
// the conversation.
const EndingMessage = "<--Ending the skill conversation"

// Dialog proxies a conversation to a remote skill. Each turn forwards the
// inbound activity and relays the skill's replies back to the user. When the
// skill sends endOfConversation the dialog completes and emits a single trace
// activity announcing the handoff back to the host bot.
type Dialog struct {
	caller Caller
	logger logger.Logger
}

func NewDialog(caller Caller, log logger.Logger) (*Dialog, error) {
	if caller == nil {
		return nil, errors.NewNilTurnContextError("skill caller")
	}
	return &Dialog{
		caller: caller,
		logger: log.WithFields(map[string]interface{}{"dialog": "skill"}),
	}, nil
}

// ContinueDialog forwards the turn's activity to the skill and delivers its
// replies. It reports true when the skill ended the conversation.
func (d *Dialog) ContinueDialog(ctx context.Context, tc *bot.TurnContext) (bool, error) {
	if tc == nil {
		return false, errors.NewNilTurnContextError("turn context")
	}

	replies, err := d.caller.PostActivity(ctx, tc.Activity())
	if err != nil {
		return false, err
	}

	ended := false
	for _, reply := range replies {
		if reply.Type == models.ActivityTypeEndOfConversation {
			ended = true
			continue
		}
		if _, err := tc.SendActivity(ctx, reply); err != nil {
			return false, err
		}
	}

	if ended {
		d.logger.Info("skill ended the conversation", map[string]interface{}{
			"conversationId": tc.Activity().Conversation.ID,
		})
		trace := models.NewTraceActivity("SkillEnded", "Skill State", EndingMessage)
		if _, err := tc.SendActivity(ctx, trace); err != nil {
			return false, err
		}
	}

	return ended, nil
}
