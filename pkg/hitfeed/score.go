package hitfeed

import (
	"math"
	"time"

	"polithane/pkg/post"
)

const (
	recencyHalfLife = 12.0 // hours

	politBase   = 0.75
	politRecent = 0.25
	boostWeight = 12.0

	commentWeight = 2.0
	shareWeight   = 5.0
	viewWeight    = 0.05
)

// Scored is a post with its ranking signals attached.
type Scored struct {
	Post    *post.Post
	Score   float64
	Recency float64
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Recency decays from 1 towards 0, reaching 0.5 after 12 hours.
// Missing or future timestamps count as now.
func Recency(p *post.Post, now time.Time) float64 {
	if p == nil || p.CreatedAt.IsZero() {
		return 1
	}
	hours := now.Sub(p.CreatedAt).Hours()
	if hours < 0 {
		hours = 0
	}
	return 1 / (1 + hours/recencyHalfLife)
}

// Engagement is the weighted interaction count of a post, never negative.
func Engagement(p *post.Post) float64 {
	if p == nil {
		return 0
	}
	e := float64(p.LikeCount) +
		float64(p.CommentCount)*commentWeight +
		float64(p.ShareCount)*shareWeight +
		float64(p.ViewCount)*viewWeight
	if e < 0 {
		return 0
	}
	return e
}

// Score combines the Polit Score, weighted by recency, with log compressed
// engagement. It never modifies p.
func Score(p *post.Post, now time.Time) float64 {
	if p == nil {
		return 0
	}
	recency := Recency(p, now)
	boost := math.Log1p(Engagement(p))
	return finite(p.PolitScore)*(politBase+politRecent*recency) + boost*boostWeight
}
