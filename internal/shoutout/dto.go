package shoutout

import (
	"strconv"
	"strings"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// CreateShoutOutDTO carries the multipart form fields of a new post.
// TaggedUserIDs is the raw client value before lenient parsing.
type CreateShoutOutDTO struct {
	Message       string `json:"message"`
	TaggedUserIDs string `json:"tagged_user_ids"`
}

func (d CreateShoutOutDTO) Validate() error {
	if strings.TrimSpace(d.Message) == "" {
		return &ValidationError{Msg: "message is required"}
	}
	return nil
}

// ParseTaggedIDs parses a comma-separated id list. Malformed input
// degrades to an empty tag list instead of failing the whole request;
// this leniency is deliberate, not an oversight.
func (d CreateShoutOutDTO) ParseTaggedIDs() []int64 {
	raw := strings.TrimSpace(d.TaggedUserIDs)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil
		}
		ids = append(ids, id)
	}
	return ids
}

type ReactDTO struct {
	Emoji string `json:"emoji"`
}

func (d ReactDTO) Validate() error {
	if d.Emoji == "" {
		return &ValidationError{Msg: "emoji is required"}
	}
	return nil
}

type CommentDTO struct {
	Content string `json:"content"`
}

func (d CommentDTO) Validate() error {
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Msg: "content is required"}
	}
	return nil
}
