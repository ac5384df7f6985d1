// internal/middleware/transcript/store.go
package transcript

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"bot-middleware/internal/common/errors"
	"bot-middleware/internal/models"
)

const insertActivitySQL = `
	INSERT INTO transcript_activities
		(activity_id, conversation_id, channel_id, activity_type, direction, from_id, recipient_id, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Direction marks which way an activity travelled through the bot.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Store persists conversation activities to Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InsertActivity writes one activity row, with the full activity serialized
// into the payload column.
func (s *Store) InsertActivity(ctx context.Context, activity *models.Activity, direction string) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return errors.NewTranscriptInsertFailedError(
			fmt.Errorf("failed to marshal activity %s: %w", activity.ID, err))
	}

	_, err = s.db.ExecContext(ctx, insertActivitySQL,
		activity.ID,
		activity.Conversation.ID,
		activity.ChannelID,
		string(activity.Type),
		direction,
		activity.From.ID,
		activity.Recipient.ID,
		payload,
		time.Now().UTC(),
	)
	if err != nil {
		return errors.NewTranscriptInsertFailedError(err)
	}
	return nil
}
