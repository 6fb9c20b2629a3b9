package hitfeed

import (
	"sort"
	"time"

	"polithane/pkg/post"
)

// ScoreAll scores posts against now and orders them by score, then recency,
// both descending. Equal keys keep their input order.
func ScoreAll(posts []*post.Post, now time.Time) []Scored {
	scored := make([]Scored, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		scored = append(scored, Scored{
			Post:    p,
			Score:   Score(p, now),
			Recency: Recency(p, now),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Recency > scored[j].Recency
	})
	return scored
}

// Rank runs the whole Hit pipeline: score, sort, diversity selection and the
// consecutive type filter. The input slice and its posts are left untouched.
func Rank(posts []*post.Post, cfg Config, now time.Time) []*post.Post {
	return FilterConsecutive(Select(ScoreAll(posts, now), cfg))
}

// Ranker binds the pipeline to a clock.
type Ranker struct {
	Now func() time.Time
}

func NewRanker() *Ranker {
	return &Ranker{Now: time.Now}
}

func (r *Ranker) Rank(posts []*post.Post, cfg Config) []*post.Post {
	return Rank(posts, cfg, r.Now())
}
