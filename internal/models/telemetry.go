// internal/models/telemetry.go
package models

// Telemetry event names. These are a fixed string contract consumed by the
// configured analytics backend; renaming one breaks downstream dashboards.
const (
	EventMsgReceived = "BotMsgReceived"
	EventMsgSent     = "BotMsgSent"
	EventMsgUpdated  = "BotMsgUpdated"
	EventMsgDeleted  = "BotMsgDeleted"
)

// Telemetry property keys. The key set is a fixed enumeration; values are
// best-effort and absent activity fields map to the empty string.
const (
	PropActivityID       = "activityId"
	PropActivityType     = "activityType"
	PropChannelID        = "channelId"
	PropConversationID   = "conversationId"
	PropConversationName = "conversationName"
	PropFromID           = "fromId"
	PropFromName         = "fromName"
	PropRecipientID      = "recipientId"
	PropRecipientName    = "recipientName"
	PropReplyActivityID  = "replyActivityId"
	PropLocale           = "locale"
	PropText             = "text"
	PropSpeak            = "speak"
	PropIntent           = "intent"
	PropIntentScore      = "intentScore"
	PropSentimentLabel   = "sentimentLabel"
	PropSentimentScore   = "sentimentScore"
)

// Turn-state keys under which middleware and bot logic exchange per-turn data.
const (
	StateKeyScreenResult     = "ContentModeratorResult"
	StateKeyRecognizerResult = "RecognizerResult"
)
