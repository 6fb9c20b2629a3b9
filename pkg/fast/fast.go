// Package fast stores "Fasts": short lived media stories that disappear
// 24 hours after they were posted.
package fast

import (
	"time"

	"polithane/pkg/post"
)

const Lifetime = 24 * time.Hour

type Fast struct {
	Id          string           `json:"id"`
	UserId      string           `json:"user_id"`
	MediaURL    string           `json:"media_url"`
	ContentType post.ContentType `json:"content_type"`
	Created     time.Time        `json:"created_at"`
	ExpiresAt   time.Time        `json:"expires_at"`
}

func (f *Fast) Expired(now time.Time) bool {
	return !now.Before(f.ExpiresAt)
}
