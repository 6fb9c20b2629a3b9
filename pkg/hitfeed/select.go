package hitfeed

import (
	"math"

	"polithane/pkg/post"
	"polithane/pkg/user"
)

// RoleCap is the per user type cap for cfg, 0 when disabled.
func RoleCap(cfg Config) int {
	if cfg.PerRoleRatio <= 0 || cfg.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(cfg.Limit) * cfg.PerRoleRatio))
}

// Select walks candidates in order and keeps those that respect the caps and
// the adjacency rule. Rejected candidates are never reconsidered.
// Posts without a user id or user type are not subject to the matching cap.
func Select(candidates []Scored, cfg Config) []*post.Post {
	if cfg.Limit <= 0 {
		return []*post.Post{}
	}

	size := cfg.Limit
	if len(candidates) < size {
		size = len(candidates)
	}
	out := make([]*post.Post, 0, size)

	roleCap := RoleCap(cfg)
	perUser := make(map[string]int)
	perRole := make(map[user.UserType]int)
	var prev *post.Post

	for _, c := range candidates {
		if len(out) >= cfg.Limit {
			break
		}
		p := c.Post
		if p == nil {
			continue
		}

		if cfg.PerUserCap > 0 && p.UserId != "" && perUser[p.UserId] >= cfg.PerUserCap {
			continue
		}
		role := p.UserType()
		if roleCap > 0 && role != "" && perRole[role] >= roleCap {
			continue
		}
		if cfg.AlternateTypes && prev != nil &&
			p.ContentType.LowRichness() && p.ContentType == prev.ContentType {
			continue
		}

		out = append(out, p)
		if p.UserId != "" {
			perUser[p.UserId]++
		}
		if role != "" {
			perRole[role]++
		}
		prev = p
	}

	return out
}
