package like

import "time"

type Like struct {
	UserId  string    `json:"user_id" bson:"user_id"`
	Created time.Time `json:"created_at" bson:"created_at"`
}

// Toggle removes the user's like if present, otherwise appends a new one.
// It reports whether the post is liked by the user afterwards.
func Toggle(likes []*Like, userId string, now time.Time) ([]*Like, bool) {
	for idx, l := range likes {
		if l.UserId == userId {
			// remove from slice keeping order
			return append(likes[:idx:idx], likes[idx+1:]...), false
		}
	}
	return append(likes, &Like{UserId: userId, Created: now}), true
}

func LikedBy(likes []*Like, userId string) bool {
	for _, l := range likes {
		if l.UserId == userId {
			return true
		}
	}
	return false
}
