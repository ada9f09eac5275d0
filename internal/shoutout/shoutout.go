package shoutout

import (
	"errors"
	"sort"
	"time"
)

// ShoutOut is a recognition post. Posts are immutable after creation;
// there is no edit path.
type ShoutOut struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Message    string    `json:"message"`
	ImageURL   *string   `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type TaggedUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ShoutOutView is the denormalized feed entry: the post merged with
// its tags, per-emoji reaction counts, and comment count. Posts with
// no activity still carry an empty map and zero count.
type ShoutOutView struct {
	ID            int64            `json:"id"`
	AuthorID      int64            `json:"author_id"`
	AuthorName    string           `json:"author_name"`
	Message       string           `json:"message"`
	ImageURL      *string          `json:"image_url,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	TaggedUsers   []TaggedUser     `json:"tagged_users"`
	Reactions     map[string]int64 `json:"reactions"`
	CommentsCount int64            `json:"comments_count"`
}

type CommentView struct {
	ID         int64     `json:"id"`
	ShoutOutID int64     `json:"shoutout_id"`
	UserID     int64     `json:"user_id"`
	UserName   string    `json:"user_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type ActivityKind string

const (
	ActivityGiven     ActivityKind = "given"
	ActivityReceived  ActivityKind = "received"
	ActivityCommented ActivityKind = "comment"
)

// ActivityEvent is one entry of the recent-activity merge, tagged with
// its kind and carrying a real timestamp so the merge sorts on
// time.Time instead of formatted strings.
type ActivityEvent struct {
	Kind       ActivityKind `json:"type"`
	ShoutOutID int64        `json:"shoutout_id"`
	Message    string       `json:"message"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type Metrics struct {
	ShoutoutsGiven    int64           `json:"shoutouts_given"`
	ShoutoutsReceived int64           `json:"shoutouts_received"`
	CommentsMade      int64           `json:"comments_made"`
	Recent            []ActivityEvent `json:"recent"`
}

// mergeRecent concatenates per-kind event lists, sorts newest-first,
// and truncates to max.
func mergeRecent(max int, lists ...[]ActivityEvent) []ActivityEvent {
	var merged []ActivityEvent
	for _, l := range lists {
		merged = append(merged, l...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].OccurredAt.After(merged[j].OccurredAt)
	})
	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}

var ErrShoutOutNotFound = errors.New("shout-out not found")
