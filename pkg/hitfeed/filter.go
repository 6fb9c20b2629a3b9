package hitfeed

import "polithane/pkg/post"

// FilterConsecutive drops every low richness post (text or audio) that would
// directly follow another low richness post. Input is rank ordered, so the
// earlier and higher scored post of a conflicting pair is the one kept.
func FilterConsecutive(posts []*post.Post) []*post.Post {
	out := make([]*post.Post, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		if n := len(out); n > 0 && out[n-1].ContentType.LowRichness() && p.ContentType.LowRichness() {
			continue
		}
		out = append(out, p)
	}
	return out
}
