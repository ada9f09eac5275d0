package shoutout

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/bragboard/internal/auth"
	"github.com/frahmantamala/bragboard/internal/core/events"
)

// DefaultFeedLimit caps a feed page when the caller does not ask for
// a specific size.
const DefaultFeedLimit = 100

const recentPerKind = 5
const recentMax = 10

// BlobStore is the collaborator that persists uploaded images and
// hands back a public URL.
type BlobStore interface {
	Store(ctx context.Context, data []byte, suggestedExt string) (url string, err error)
}

// Repository defines the data access methods for the feed aggregate.
// The *ForShoutOuts methods are the batched lookups: one query per
// relation keyed by the page's id set, never per-post.
type Repository interface {
	Create(s *ShoutOut) error
	CreateTags(shoutOutID int64, userIDs []int64) error
	GetByID(shoutOutID int64) (*ShoutOut, error)
	ListRecent(limit int) ([]*ShoutOut, error)

	TagsForShoutOuts(shoutOutIDs []int64) (map[int64][]TaggedUser, error)
	ReactionCountsForShoutOuts(shoutOutIDs []int64) (map[int64]map[string]int64, error)
	CommentCountsForShoutOuts(shoutOutIDs []int64) (map[int64]int64, error)

	AddReaction(shoutOutID, userID int64, emoji string) error
	AddComment(shoutOutID, userID int64, content string) (*CommentView, error)
	ListComments(shoutOutID int64) ([]*CommentView, error)

	CountAuthoredBy(userID int64) (int64, error)
	CountTagged(userID int64) (int64, error)
	CountCommentsBy(userID int64) (int64, error)
	RecentGiven(userID int64, limit int) ([]ActivityEvent, error)
	RecentReceived(userID int64, limit int) ([]ActivityEvent, error)
	RecentComments(userID int64, limit int) ([]ActivityEvent, error)
}

type Service struct {
	repo   Repository
	blobs  BlobStore
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, blobs BlobStore, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		bus:    bus,
		logger: logger,
	}
}

// CreateShoutOut persists the post, stores the optional image, and
// inserts one tag row per tagged id (duplicates included). The
// returned view echoes the tags as given rather than re-reading them.
func (s *Service) CreateShoutOut(ctx context.Context, author *auth.User, dto CreateShoutOutDTO, image []byte, imageExt string) (*ShoutOutView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	post := &ShoutOut{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Message:    dto.Message,
		CreatedAt:  time.Now(),
	}

	if len(image) > 0 {
		url, err := s.blobs.Store(ctx, image, imageExt)
		if err != nil {
			s.logger.Error("failed to store shout-out image", "error", err, "author_id", author.ID)
			return nil, err
		}
		post.ImageURL = &url
	}

	if err := s.repo.Create(post); err != nil {
		s.logger.Error("failed to create shout-out", "error", err, "author_id", author.ID)
		return nil, err
	}

	taggedIDs := dto.ParseTaggedIDs()
	if len(taggedIDs) > 0 {
		if err := s.repo.CreateTags(post.ID, taggedIDs); err != nil {
			s.logger.Error("failed to tag shout-out", "error", err, "shoutout_id", post.ID)
			return nil, err
		}
	}

	if err := s.bus.Publish(ctx, events.NewShoutOutCreated(post.ID, author.ID, taggedIDs)); err != nil {
		s.logger.Warn("failed to publish shoutout.created", "error", err)
	}

	s.logger.Info("shout-out created",
		"shoutout_id", post.ID,
		"author_id", author.ID,
		"tagged", len(taggedIDs))

	tagged := make([]TaggedUser, len(taggedIDs))
	for i, id := range taggedIDs {
		tagged[i] = TaggedUser{ID: id}
	}

	return &ShoutOutView{
		ID:          post.ID,
		AuthorID:    post.AuthorID,
		AuthorName:  post.AuthorName,
		Message:     post.Message,
		ImageURL:    post.ImageURL,
		CreatedAt:   post.CreatedAt,
		TaggedUsers: tagged,
		Reactions:   map[string]int64{},
	}, nil
}

// GetFeed returns the newest posts with their aggregates. The three
// relation lookups are batched over the whole page id set; the counts
// are a point-in-time snapshot with no isolation across the three
// queries.
func (s *Service) GetFeed(limit int) ([]*ShoutOutView, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	posts, err := s.repo.ListRecent(limit)
	if err != nil {
		s.logger.Error("failed to load feed", "error", err)
		return nil, err
	}

	if len(posts) == 0 {
		return []*ShoutOutView{}, nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	tags, err := s.repo.TagsForShoutOuts(ids)
	if err != nil {
		return nil, err
	}
	reactions, err := s.repo.ReactionCountsForShoutOuts(ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.CommentCountsForShoutOuts(ids)
	if err != nil {
		return nil, err
	}

	views := make([]*ShoutOutView, len(posts))
	for i, p := range posts {
		v := &ShoutOutView{
			ID:            p.ID,
			AuthorID:      p.AuthorID,
			AuthorName:    p.AuthorName,
			Message:       p.Message,
			ImageURL:      p.ImageURL,
			CreatedAt:     p.CreatedAt,
			TaggedUsers:   tags[p.ID],
			Reactions:     reactions[p.ID],
			CommentsCount: comments[p.ID],
		}
		if v.TaggedUsers == nil {
			v.TaggedUsers = []TaggedUser{}
		}
		if v.Reactions == nil {
			v.Reactions = map[string]int64{}
		}
		views[i] = v
	}

	return views, nil
}

// React appends a reaction row unconditionally. Repeated identical
// reactions accumulate; the no-dedup policy is intentional.
func (s *Service) React(ctx context.Context, shoutOutID int64, user *auth.User, dto ReactDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(shoutOutID); err != nil {
		return ErrShoutOutNotFound
	}

	if err := s.repo.AddReaction(shoutOutID, user.ID, dto.Emoji); err != nil {
		s.logger.Error("failed to add reaction", "error", err, "shoutout_id", shoutOutID, "user_id", user.ID)
		return err
	}

	if err := s.bus.Publish(ctx, events.NewShoutOutReacted(shoutOutID, user.ID, dto.Emoji)); err != nil {
		s.logger.Warn("failed to publish shoutout.reacted", "error", err)
	}

	return nil
}

// AddComment appends a comment and returns it with the server-assigned
// timestamp.
func (s *Service) AddComment(ctx context.Context, shoutOutID int64, user *auth.User, dto CommentDTO) (*CommentView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(shoutOutID); err != nil {
		return nil, ErrShoutOutNotFound
	}

	comment, err := s.repo.AddComment(shoutOutID, user.ID, dto.Content)
	if err != nil {
		s.logger.Error("failed to add comment", "error", err, "shoutout_id", shoutOutID, "user_id", user.ID)
		return nil, err
	}
	comment.UserName = user.Name

	if err := s.bus.Publish(ctx, events.NewShoutOutCommented(shoutOutID, comment.ID, user.ID)); err != nil {
		s.logger.Warn("failed to publish shoutout.commented", "error", err)
	}

	return comment, nil
}

// ListComments returns a post's thread oldest-first, unlike the feed's
// newest-first order.
func (s *Service) ListComments(shoutOutID int64) ([]*CommentView, error) {
	if _, err := s.repo.GetByID(shoutOutID); err != nil {
		return nil, ErrShoutOutNotFound
	}
	return s.repo.ListComments(shoutOutID)
}

// MyMetrics computes the caller's given/received/comment counts and a
// merged recent-activity list: the 5 newest events of each kind,
// merged, sorted newest-first on the real timestamp, capped at 10.
func (s *Service) MyMetrics(user *auth.User) (*Metrics, error) {
	given, err := s.repo.CountAuthoredBy(user.ID)
	if err != nil {
		return nil, err
	}
	received, err := s.repo.CountTagged(user.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.CountCommentsBy(user.ID)
	if err != nil {
		return nil, err
	}

	recentGiven, err := s.repo.RecentGiven(user.ID, recentPerKind)
	if err != nil {
		return nil, err
	}
	recentReceived, err := s.repo.RecentReceived(user.ID, recentPerKind)
	if err != nil {
		return nil, err
	}
	recentComments, err := s.repo.RecentComments(user.ID, recentPerKind)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ShoutoutsGiven:    given,
		ShoutoutsReceived: received,
		CommentsMade:      comments,
		Recent:            mergeRecent(recentMax, recentGiven, recentReceived, recentComments),
	}, nil
}
