// pkg/contract/contract.go

// Package contract publishes the telemetry event contract: the event names
// the bot emits and the exact property keys each event always carries.
// Downstream analytics queries and tests key on this enumeration, so the key
// sets are fixed; absent values are emitted as empty strings, never omitted.
package contract

// Telemetry event names.
const (
	EventMsgReceived = "BotMsgReceived"
	EventMsgSent     = "BotMsgSent"
	EventMsgUpdated  = "BotMsgUpdated"
	EventMsgDeleted  = "BotMsgDeleted"
)

// Event describes one telemetry event and its fixed property keys.
type Event struct {
	Name string `json:"name"`
	// Keys lists every property key the event carries, in emission order.
	Keys []string `json:"keys"`
	// PersonalKeys are the subset of Keys whose values are blanked unless
	// personal information logging is enabled.
	PersonalKeys []string `json:"personalKeys"`
}

// Events is the full event contract.
var Events = []Event{
	{
		Name: EventMsgReceived,
		Keys: []string{
			"activityId", "activityType", "channelId",
			"conversationId", "conversationName",
			"fromId", "fromName", "recipientId", "recipientName",
			"locale", "text", "speak",
			"intent", "intentScore", "sentimentLabel", "sentimentScore",
		},
		PersonalKeys: []string{"fromName", "text", "speak"},
	},
	{
		Name: EventMsgSent,
		Keys: []string{
			"activityId", "activityType", "channelId",
			"conversationId", "conversationName",
			"replyActivityId", "recipientId", "recipientName",
			"locale", "text", "speak",
		},
		PersonalKeys: []string{"text", "speak"},
	},
	{
		Name: EventMsgUpdated,
		Keys: []string{
			"activityId", "activityType", "channelId",
			"conversationId", "locale", "text",
		},
		PersonalKeys: []string{"text"},
	},
	{
		Name: EventMsgDeleted,
		Keys: []string{
			"activityId", "channelId", "conversationId",
		},
	},
}

// Lookup returns the contract entry for the given event name.
func Lookup(name string) (Event, bool) {
	for _, e := range Events {
		if e.Name == name {
			return e, true
		}
	}
	return Event{}, false
}

// Validate checks that a recorded property map carries exactly the keys the
// contract fixes for the event. It returns the missing and unexpected keys.
func Validate(name string, properties map[string]string) (missing, extra []string) {
	event, ok := Lookup(name)
	if !ok {
		for k := range properties {
			extra = append(extra, k)
		}
		return nil, extra
	}

	want := make(map[string]bool, len(event.Keys))
	for _, k := range event.Keys {
		want[k] = true
		if _, present := properties[k]; !present {
			missing = append(missing, k)
		}
	}
	for k := range properties {
		if !want[k] {
			extra = append(extra, k)
		}
	}
	return missing, extra
}
