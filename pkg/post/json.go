package post

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// UnmarshalJSON accepts the loosely typed rows PostgREST exports produce:
// counters as numbers, numeric strings or null, and timestamps in any common
// layout. Anything unparseable decodes to zero.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		*plain
		PolitScore   interface{} `json:"polit_score"`
		LikeCount    interface{} `json:"like_count"`
		CommentCount interface{} `json:"comment_count"`
		ShareCount   interface{} `json:"share_count"`
		ViewCount    interface{} `json:"view_count"`
		CreatedAt    interface{} `json:"created_at"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.PolitScore = toNumber(aux.PolitScore)
	p.LikeCount = toCount(aux.LikeCount)
	p.CommentCount = toCount(aux.CommentCount)
	p.ShareCount = toCount(aux.ShareCount)
	p.ViewCount = toCount(aux.ViewCount)
	p.CreatedAt = toTime(aux.CreatedAt)
	return nil
}

func toNumber(v interface{}) float64 {
	switch x := v.(type) {
	case bool:
		return 0
	case string:
		v = strings.TrimSpace(x)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// toCount clamps to [0, MaxInt64] and truncates fractions, so 2.9 views
// count as 2.
func toCount(v interface{}) int64 {
	f := toNumber(v)
	switch {
	case f <= 0:
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(f)
}

// unix timestamps above this are taken as milliseconds
const msThreshold = 1e12

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}
		}
		parsed, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return time.Time{}
		}
		return parsed
	case float64:
		if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}
		}
		if t > msThreshold {
			return time.UnixMilli(int64(t))
		}
		return time.Unix(int64(t), 0)
	}
	return time.Time{}
}
