// internal/host/logic.go
package host

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/dialogs/skill"
	"bot-middleware/internal/models"
)

// DefaultSkillTrigger is the utterance that hands the conversation to the
// skill when no recognizer intent is available.
const DefaultSkillTrigger = "skill"

// SkillIntent is the recognizer intent that hands the conversation to the
// skill.
const SkillIntent = "SkillDialog"

// minIntentScore is the confidence below which a recognized intent is ignored.
const minIntentScore = 0.5

// Recognizer resolves an utterance to intents and sentiment.
type Recognizer interface {
	Recognize(ctx context.Context, utterance string) (*models.RecognizerResult, error)
}

// Logic is the host bot: it recognizes the inbound utterance, routes the
// conversation to the skill when triggered, and echoes everything else.
// Conversations stay with the skill until it signals endOfConversation.
type Logic struct {
	recognizer   Recognizer
	dialog       *skill.Dialog
	echoTemplate string
	logger       logger.Logger

	mu          sync.Mutex
	activeSkill map[string]bool
}

// NewLogic builds the host bot. recognizer and dialog are optional: without a
// recognizer only the literal trigger utterance starts the skill, and without
// a dialog every message is echoed.
func NewLogic(recognizer Recognizer, dialog *skill.Dialog, echoTemplate string, log logger.Logger) *Logic {
	if echoTemplate == "" {
		echoTemplate = "Echo: %s"
	}
	return &Logic{
		recognizer:   recognizer,
		dialog:       dialog,
		echoTemplate: echoTemplate,
		logger:       log.WithFields(map[string]interface{}{"component": "bot-logic"}),
		activeSkill:  make(map[string]bool),
	}
}

// OnTurn handles one turn of the conversation.
func (l *Logic) OnTurn(ctx context.Context, tc *bot.TurnContext) error {
	activity := tc.Activity()
	if !activity.IsMessage() {
		return nil
	}

	l.recognize(ctx, tc)

	conversationID := activity.Conversation.ID

	if l.dialog != nil && l.skillActive(conversationID) {
		return l.continueSkill(ctx, tc, conversationID)
	}

	if l.dialog != nil && l.isSkillTrigger(tc) {
		l.setSkillActive(conversationID, true)
		return l.continueSkill(ctx, tc, conversationID)
	}

	_, err := tc.SendText(ctx, fmt.Sprintf(l.echoTemplate, activity.Text))
	return err
}

// recognize stashes the recognizer result for downstream middleware. A failed
// prediction degrades to an echo turn instead of failing it.
func (l *Logic) recognize(ctx context.Context, tc *bot.TurnContext) {
	if l.recognizer == nil {
		return
	}

	result, err := l.recognizer.Recognize(ctx, tc.Activity().Text)
	if err != nil {
		l.logger.Warn("recognizer prediction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	tc.SetState(models.StateKeyRecognizerResult, result)
}

func (l *Logic) continueSkill(ctx context.Context, tc *bot.TurnContext, conversationID string) error {
	ended, err := l.dialog.ContinueDialog(ctx, tc)
	if err != nil {
		l.setSkillActive(conversationID, false)
		return err
	}
	if ended {
		l.setSkillActive(conversationID, false)
	}
	return nil
}

// isSkillTrigger reports whether the turn should hand off to the skill:
// either the recognizer returned the skill intent with enough confidence, or
// the raw utterance equals the literal trigger.
func (l *Logic) isSkillTrigger(tc *bot.TurnContext) bool {
	if v, ok := tc.GetState(models.StateKeyRecognizerResult); ok {
		if result, ok := v.(*models.RecognizerResult); ok && result != nil {
			if intent, score := result.TopIntent(); intent == SkillIntent && score >= minIntentScore {
				return true
			}
		}
	}
	return strings.EqualFold(strings.TrimSpace(tc.Activity().Text), DefaultSkillTrigger)
}

func (l *Logic) skillActive(conversationID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeSkill[conversationID]
}

func (l *Logic) setSkillActive(conversationID string, active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if active {
		l.activeSkill[conversationID] = true
		return
	}
	delete(l.activeSkill, conversationID)
}
