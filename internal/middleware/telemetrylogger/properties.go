// internal/middleware/telemetrylogger/properties.go
package telemetrylogger

import (
	"strconv"

	"bot-middleware/internal/bot"
	"bot-middleware/internal/models"
)

// receiveProperties builds the property map for an inbound activity,
// including recognizer results when earlier pipeline stages stashed them in
// turn state. Every key is always present; absent fields map to "".
func (m *Middleware) receiveProperties(tc *bot.TurnContext) map[string]string {
	activity := tc.Activity()

	properties := map[string]string{
		models.PropActivityID:       activity.ID,
		models.PropActivityType:     string(activity.Type),
		models.PropChannelID:        activity.ChannelID,
		models.PropConversationID:   activity.Conversation.ID,
		models.PropConversationName: activity.Conversation.Name,
		models.PropFromID:           activity.From.ID,
		models.PropFromName:         "",
		models.PropRecipientID:      activity.Recipient.ID,
		models.PropRecipientName:    activity.Recipient.Name,
		models.PropLocale:           activity.Locale,
		models.PropText:             "",
		models.PropSpeak:            "",
		models.PropIntent:           "",
		models.PropIntentScore:      "",
		models.PropSentimentLabel:   "",
		models.PropSentimentScore:   "",
	}

	if m.config.LogPersonalInformation {
		properties[models.PropFromName] = activity.From.Name
		properties[models.PropText] = activity.Text
		properties[models.PropSpeak] = activity.Speak
	}

	if v, ok := tc.GetState(models.StateKeyRecognizerResult); ok {
		if result, ok := v.(*models.RecognizerResult); ok && result != nil {
			intent, score := result.TopIntent()
			properties[models.PropIntent] = intent
			properties[models.PropIntentScore] = formatScore(score)
			if result.Sentiment != nil {
				properties[models.PropSentimentLabel] = result.Sentiment.Label
				properties[models.PropSentimentScore] = formatScore(result.Sentiment.Score)
			}
		}
	}

	return properties
}

// sendProperties builds the property map for an outgoing activity.
func (m *Middleware) sendProperties(activity *models.Activity) map[string]string {
	properties := map[string]string{
		models.PropActivityID:       activity.ID,
		models.PropActivityType:     string(activity.Type),
		models.PropChannelID:        activity.ChannelID,
		models.PropConversationID:   activity.Conversation.ID,
		models.PropConversationName: activity.Conversation.Name,
		models.PropReplyActivityID:  activity.ReplyToID,
		models.PropRecipientID:      activity.Recipient.ID,
		models.PropRecipientName:    activity.Recipient.Name,
		models.PropLocale:           activity.Locale,
		models.PropText:             "",
		models.PropSpeak:            "",
	}

	if m.config.LogPersonalInformation {
		properties[models.PropText] = activity.Text
		properties[models.PropSpeak] = activity.Speak
	}

	return properties
}

// updateProperties builds the property map for an updated activity.
func (m *Middleware) updateProperties(activity *models.Activity) map[string]string {
	properties := map[string]string{
		models.PropActivityID:     activity.ID,
		models.PropActivityType:   string(activity.Type),
		models.PropChannelID:      activity.ChannelID,
		models.PropConversationID: activity.Conversation.ID,
		models.PropLocale:         activity.Locale,
		models.PropText:           "",
	}

	if m.config.LogPersonalInformation {
		properties[models.PropText] = activity.Text
	}

	return properties
}

// deleteProperties builds the property map for a deleted activity.
func (m *Middleware) deleteProperties(reference models.ConversationReference) map[string]string {
	return map[string]string{
		models.PropActivityID:     reference.ActivityID,
		models.PropChannelID:      reference.ChannelID,
		models.PropConversationID: reference.Conversation.ID,
	}
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
