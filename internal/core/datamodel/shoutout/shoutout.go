package shoutout

import "time"

type ShoutOut struct {
	ID        int64     `gorm:"primaryKey"`
	AuthorID  int64     `gorm:"column:author_id;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	ImageURL  *string   `gorm:"column:image_url"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (ShoutOut) TableName() string {
	return "shoutouts"
}

// ShoutOutTag links a post to a tagged recipient. Duplicate tags for
// the same (shoutout, user) pair are allowed.
type ShoutOutTag struct {
	ID         int64 `gorm:"primaryKey"`
	ShoutOutID int64 `gorm:"column:shoutout_id;not null;index"`
	UserID     int64 `gorm:"column:user_id;not null;index"`
}

func (ShoutOutTag) TableName() string {
	return "shoutout_tags"
}

// ShoutOutReaction is an append-only reaction event; the same user may
// react with the same emoji more than once.
type ShoutOutReaction struct {
	ID         int64     `gorm:"primaryKey"`
	ShoutOutID int64     `gorm:"column:shoutout_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	Emoji      string    `gorm:"column:emoji;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ShoutOutReaction) TableName() string {
	return "shoutout_reactions"
}

type ShoutOutComment struct {
	ID         int64     `gorm:"primaryKey"`
	ShoutOutID int64     `gorm:"column:shoutout_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	Content    string    `gorm:"column:content;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ShoutOutComment) TableName() string {
	return "shoutout_comments"
}
