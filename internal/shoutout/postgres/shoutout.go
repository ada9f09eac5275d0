package postgres

import (
	"errors"
	"time"

	shoutoutDatamodel "github.com/frahmantamala/bragboard/internal/core/datamodel/shoutout"

	"github.com/frahmantamala/bragboard/internal/shoutout"
	"gorm.io/gorm"
)

// ShoutOutRepository implements shoutout.Repository using GORM
type ShoutOutRepository struct {
	db *gorm.DB
}

func NewShoutOutRepository(db *gorm.DB) shoutout.Repository {
	return &ShoutOutRepository{db: db}
}

func (r *ShoutOutRepository) Create(s *shoutout.ShoutOut) error {
	dm := &shoutoutDatamodel.ShoutOut{
		AuthorID:  s.AuthorID,
		Message:   s.Message,
		ImageURL:  s.ImageURL,
		CreatedAt: s.CreatedAt,
	}
	if dm.CreatedAt.IsZero() {
		dm.CreatedAt = time.Now()
	}
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	s.ID = dm.ID
	s.CreatedAt = dm.CreatedAt
	return nil
}

func (r *ShoutOutRepository) CreateTags(shoutOutID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	tags := make([]shoutoutDatamodel.ShoutOutTag, len(userIDs))
	for i, id := range userIDs {
		tags[i] = shoutoutDatamodel.ShoutOutTag{ShoutOutID: shoutOutID, UserID: id}
	}
	return r.db.Create(&tags).Error
}

func (r *ShoutOutRepository) GetByID(shoutOutID int64) (*shoutout.ShoutOut, error) {
	var row feedRow
	err := r.db.Model(&shoutoutDatamodel.ShoutOut{}).
		Select("shoutouts.id, shoutouts.author_id, users.name AS author_name, shoutouts.message, shoutouts.image_url, shoutouts.created_at").
		Joins("JOIN users ON users.id = shoutouts.author_id").
		Where("shoutouts.id = ?", shoutOutID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shoutout.ErrShoutOutNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

// feedRow is the join projection of a post with its author's name.
type feedRow struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Message    string
	ImageURL   *string
	CreatedAt  time.Time
}

func (row feedRow) toDomain() *shoutout.ShoutOut {
	return &shoutout.ShoutOut{
		ID:         row.ID,
		AuthorID:   row.AuthorID,
		AuthorName: row.AuthorName,
		Message:    row.Message,
		ImageURL:   row.ImageURL,
		CreatedAt:  row.CreatedAt,
	}
}

func (r *ShoutOutRepository) ListRecent(limit int) ([]*shoutout.ShoutOut, error) {
	var rows []feedRow
	err := r.db.Model(&shoutoutDatamodel.ShoutOut{}).
		Select("shoutouts.id, shoutouts.author_id, users.name AS author_name, shoutouts.message, shoutouts.image_url, shoutouts.created_at").
		Joins("JOIN users ON users.id = shoutouts.author_id").
		Order("shoutouts.created_at DESC, shoutouts.id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	posts := make([]*shoutout.ShoutOut, len(rows))
	for i, row := range rows {
		posts[i] = row.toDomain()
	}
	return posts, nil
}

// TagsForShoutOuts loads every tag of the given posts in one query,
// joined to users for the display name.
func (r *ShoutOutRepository) TagsForShoutOuts(shoutOutIDs []int64) (map[int64][]shoutout.TaggedUser, error) {
	var rows []struct {
		ShoutOutID int64
		UserID     int64
		Name       string
	}
	err := r.db.Model(&shoutoutDatamodel.ShoutOutTag{}).
		Select("shoutout_tags.shoutout_id, shoutout_tags.user_id, users.name").
		Joins("JOIN users ON users.id = shoutout_tags.user_id").
		Where("shoutout_tags.shoutout_id IN ?", shoutOutIDs).
		Order("shoutout_tags.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64][]shoutout.TaggedUser)
	for _, row := range rows {
		result[row.ShoutOutID] = append(result[row.ShoutOutID], shoutout.TaggedUser{
			ID:   row.UserID,
			Name: row.Name,
		})
	}
	return result, nil
}

// ReactionCountsForShoutOuts aggregates reactions grouped by post and
// emoji in one query.
func (r *ShoutOutRepository) ReactionCountsForShoutOuts(shoutOutIDs []int64) (map[int64]map[string]int64, error) {
	var rows []struct {
		ShoutOutID int64
		Emoji      string
		Count      int64
	}
	err := r.db.Model(&shoutoutDatamodel.ShoutOutReaction{}).
		Select("shoutout_id, emoji, COUNT(*) AS count").
		Where("shoutout_id IN ?", shoutOutIDs).
		Group("shoutout_id, emoji").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64]map[string]int64)
	for _, row := range rows {
		if result[row.ShoutOutID] == nil {
			result[row.ShoutOutID] = make(map[string]int64)
		}
		result[row.ShoutOutID][row.Emoji] = row.Count
	}
	return result, nil
}

// CommentCountsForShoutOuts aggregates comment totals per post in one
// query.
func (r *ShoutOutRepository) CommentCountsForShoutOuts(shoutOutIDs []int64) (map[int64]int64, error) {
	var rows []struct {
		ShoutOutID int64
		Count      int64
	}
	err := r.db.Model(&shoutoutDatamodel.ShoutOutComment{}).
		Select("shoutout_id, COUNT(*) AS count").
		Where("shoutout_id IN ?", shoutOutIDs).
		Group("shoutout_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64]int64)
	for _, row := range rows {
		result[row.ShoutOutID] = row.Count
	}
	return result, nil
}

func (r *ShoutOutRepository) AddReaction(shoutOutID, userID int64, emoji string) error {
	dm := &shoutoutDatamodel.ShoutOutReaction{
		ShoutOutID: shoutOutID,
		UserID:     userID,
		Emoji:      emoji,
		CreatedAt:  time.Now(),
	}
	return r.db.Create(dm).Error
}

func (r *ShoutOutRepository) AddComment(shoutOutID, userID int64, content string) (*shoutout.CommentView, error) {
	dm := &shoutoutDatamodel.ShoutOutComment{
		ShoutOutID: shoutOutID,
		UserID:     userID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := r.db.Create(dm).Error; err != nil {
		return nil, err
	}
	return &shoutout.CommentView{
		ID:         dm.ID,
		ShoutOutID: dm.ShoutOutID,
		UserID:     dm.UserID,
		Content:    dm.Content,
		CreatedAt:  dm.CreatedAt,
	}, nil
}

// ListComments returns a post's comments oldest-first.
func (r *ShoutOutRepository) ListComments(shoutOutID int64) ([]*shoutout.CommentView, error) {
	var rows []struct {
		ID         int64
		ShoutOutID int64
		UserID     int64
		UserName   string
		Content    string
		CreatedAt  time.Time
	}
	err := r.db.Model(&shoutoutDatamodel.ShoutOutComment{}).
		Select("shoutout_comments.id, shoutout_comments.shoutout_id, shoutout_comments.user_id, users.name AS user_name, shoutout_comments.content, shoutout_comments.created_at").
		Joins("JOIN users ON users.id = shoutout_comments.user_id").
		Where("shoutout_comments.shoutout_id = ?", shoutOutID).
		Order("shoutout_comments.created_at ASC, shoutout_comments.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	comments := make([]*shoutout.CommentView, len(rows))
	for i, row := range rows {
		comments[i] = &shoutout.CommentView{
			ID:         row.ID,
			ShoutOutID: row.ShoutOutID,
			UserID:     row.UserID,
			UserName:   row.UserName,
			Content:    row.Content,
			CreatedAt:  row.CreatedAt,
		}
	}
	return comments, nil
}

func (r *ShoutOutRepository) CountAuthoredBy(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&shoutoutDatamodel.ShoutOut{}).
		Where("author_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *ShoutOutRepository) CountTagged(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&shoutoutDatamodel.ShoutOutTag{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *ShoutOutRepository) CountCommentsBy(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&shoutoutDatamodel.ShoutOutComment{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *ShoutOutRepository) RecentGiven(userID int64, limit int) ([]shoutout.ActivityEvent, error) {
	var rows []struct {
		ID        int64
		Message   string
		CreatedAt time.Time
	}
	err := r.db.Model(&shoutoutDatamodel.ShoutOut{}).
		Select("id, message, created_at").
		Where("author_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]shoutout.ActivityEvent, len(rows))
	for i, row := range rows {
		events[i] = shoutout.ActivityEvent{
			Kind:       shoutout.ActivityGiven,
			ShoutOutID: row.ID,
			Message:    row.Message,
			OccurredAt: row.CreatedAt,
		}
	}
	return events, nil
}

func (r *ShoutOutRepository) RecentReceived(userID int64, limit int) ([]shoutout.ActivityEvent, error) {
	var rows []struct {
		ShoutOutID int64
		Message    string
		CreatedAt  time.Time
	}
	err := r.db.Model(&shoutoutDatamodel.ShoutOutTag{}).
		Select("shoutout_tags.shoutout_id, shoutouts.message, shoutouts.created_at").
		Joins("JOIN shoutouts ON shoutouts.id = shoutout_tags.shoutout_id").
		Where("shoutout_tags.user_id = ?", userID).
		Order("shoutouts.created_at DESC, shoutout_tags.id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]shoutout.ActivityEvent, len(rows))
	for i, row := range rows {
		events[i] = shoutout.ActivityEvent{
			Kind:       shoutout.ActivityReceived,
			ShoutOutID: row.ShoutOutID,
			Message:    row.Message,
			OccurredAt: row.CreatedAt,
		}
	}
	return events, nil
}

func (r *ShoutOutRepository) RecentComments(userID int64, limit int) ([]shoutout.ActivityEvent, error) {
	var rows []struct {
		ShoutOutID int64
		Content    string
		CreatedAt  time.Time
	}
	err := r.db.Model(&shoutoutDatamodel.ShoutOutComment{}).
		Select("shoutout_id, content, created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]shoutout.ActivityEvent, len(rows))
	for i, row := range rows {
		events[i] = shoutout.ActivityEvent{
			Kind:       shoutout.ActivityCommented,
			ShoutOutID: row.ShoutOutID,
			Message:    row.Content,
			OccurredAt: row.CreatedAt,
		}
	}
	return events, nil
}
