package post

import (
	"errors"
	"time"

	"polithane/pkg/comment"
	"polithane/pkg/like"
	"polithane/pkg/user"
)

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentAudio ContentType = "audio"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentText, ContentImage, ContentVideo, ContentAudio:
		return true
	}
	return false
}

// LowRichness reports whether the type carries no visual media.
func (c ContentType) LowRichness() bool {
	return c == ContentText || c == ContentAudio
}

var ErrNotFound = errors.New("post: post not found")

type PostId string

type Post struct {
	Id     PostId     `json:"id" bson:"id"`
	UserId string     `json:"user_id" bson:"user_id"`
	User   *user.User `json:"user,omitempty" bson:"user,omitempty"`

	// Types: [text|image|video|audio].
	ContentType ContentType `json:"content_type" bson:"content_type"`
	Content     string      `json:"content" bson:"content"`
	MediaURL    string      `json:"media_url,omitempty" bson:"media_url,omitempty"`
	AgendaTag   string      `json:"agenda_tag,omitempty" bson:"agenda_tag,omitempty"`

	PolitScore   float64 `json:"polit_score" bson:"polit_score"`
	LikeCount    int64   `json:"like_count" bson:"like_count"`
	CommentCount int64   `json:"comment_count" bson:"comment_count"`
	ShareCount   int64   `json:"share_count" bson:"share_count"`
	ViewCount    int64   `json:"view_count" bson:"view_count"`

	Comments []*comment.Comment `json:"comments,omitempty" bson:"comments"`
	Likes    []*like.Like       `json:"likes,omitempty" bson:"likes"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// UserType is the author's role, empty when the author is not embedded.
func (p *Post) UserType() user.UserType {
	if p.User == nil {
		return ""
	}
	return p.User.UserType
}
