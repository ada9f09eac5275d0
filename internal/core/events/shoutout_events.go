package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	ShoutOutCreatedEvent   = "shoutout.created"
	ShoutOutReactedEvent   = "shoutout.reacted"
	ShoutOutCommentedEvent = "shoutout.commented"
)

func NewShoutOutCreated(shoutOutID, authorID int64, taggedUserIDs []int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      ShoutOutCreatedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"shoutout_id":     shoutOutID,
			"author_id":       authorID,
			"tagged_user_ids": taggedUserIDs,
		},
	}
}

func NewShoutOutReacted(shoutOutID, userID int64, emoji string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      ShoutOutReactedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"shoutout_id": shoutOutID,
			"user_id":     userID,
			"emoji":       emoji,
		},
	}
}

func NewShoutOutCommented(shoutOutID, commentID, userID int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      ShoutOutCommentedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"shoutout_id": shoutOutID,
			"comment_id":  commentID,
			"user_id":     userID,
		},
	}
}
