// internal/models/activity.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType enumerates the activity envelope types exchanged during a turn.
type ActivityType string

const (
	ActivityTypeMessage            ActivityType = "message"
	ActivityTypeMessageUpdate      ActivityType = "messageUpdate"
	ActivityTypeMessageDelete      ActivityType = "messageDelete"
	ActivityTypeEvent              ActivityType = "event"
	ActivityTypeTrace              ActivityType = "trace"
	ActivityTypeEndOfConversation  ActivityType = "endOfConversation"
	ActivityTypeConversationUpdate ActivityType = "conversationUpdate"
)

// EndOfConversationCode describes why a conversation ended.
type EndOfConversationCode string

const (
	EndOfConversationCompleted     EndOfConversationCode = "completedSuccessfully"
	EndOfConversationUserCancelled EndOfConversationCode = "userCancelled"
	EndOfConversationBotError      EndOfConversationCode = "botError"
)

// ChannelAccount identifies a bot or user on a channel.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	IsGroup bool   `json:"isGroup,omitempty"`
}

// Activity is the message/event envelope exchanged during a turn.
type Activity struct {
	Type         ActivityType          `json:"type"`
	ID           string                `json:"id,omitempty"`
	Timestamp    time.Time             `json:"timestamp,omitempty"`
	ChannelID    string                `json:"channelId,omitempty"`
	From         ChannelAccount        `json:"from,omitempty"`
	Recipient    ChannelAccount        `json:"recipient,omitempty"`
	Conversation ConversationAccount   `json:"conversation,omitempty"`
	ReplyToID    string                `json:"replyToId,omitempty"`
	Locale       string                `json:"locale,omitempty"`
	Text         string                `json:"text,omitempty"`
	Speak        string                `json:"speak,omitempty"`
	Name         string                `json:"name,omitempty"`
	Label        string                `json:"label,omitempty"`
	ValueType    string                `json:"valueType,omitempty"`
	Value        interface{}           `json:"value,omitempty"`
	Code         EndOfConversationCode `json:"code,omitempty"`
}

// ResourceResponse is returned by the host for each delivered activity.
type ResourceResponse struct {
	ID string `json:"id"`
}

// ConversationReference addresses a previously delivered activity.
type ConversationReference struct {
	ActivityID   string              `json:"activityId,omitempty"`
	ChannelID    string              `json:"channelId,omitempty"`
	Conversation ConversationAccount `json:"conversation"`
}

// NewMessageActivity builds an outbound message activity with a fresh id.
func NewMessageActivity(text string) *Activity {
	return &Activity{
		Type:      ActivityTypeMessage,
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Text:      text,
	}
}

// NewTraceActivity builds a trace activity. Trace activities are delivered to
// the channel transcript only, never spoken to the user.
func NewTraceActivity(name, label, text string) *Activity {
	return &Activity{
		Type:      ActivityTypeTrace,
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Name:      name,
		Label:     label,
		Text:      text,
	}
}

// NewEndOfConversationActivity builds an endOfConversation activity.
func NewEndOfConversationActivity(code EndOfConversationCode) *Activity {
	return &Activity{
		Type:      ActivityTypeEndOfConversation,
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Code:      code,
	}
}

// IsMessage reports whether the activity is a user-visible message.
func (a *Activity) IsMessage() bool {
	return a != nil && a.Type == ActivityTypeMessage
}

// Reference builds a conversation reference addressing this activity.
func (a *Activity) Reference() ConversationReference {
	return ConversationReference{
		ActivityID:   a.ID,
		ChannelID:    a.ChannelID,
		Conversation: a.Conversation,
	}
}

// ApplyConversation stamps the conversation routing fields from an inbound
// activity onto a reply, swapping from and recipient.
func (a *Activity) ApplyConversation(inbound *Activity) {
	a.ChannelID = inbound.ChannelID
	a.Conversation = inbound.Conversation
	a.From = inbound.Recipient
	a.Recipient = inbound.From
	a.ReplyToID = inbound.ID
	if a.Locale == "" {
		a.Locale = inbound.Locale
	}
}
