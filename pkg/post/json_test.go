package post

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polithane/pkg/user"
)

func TestUnmarshalLenientPost(t *testing.T) {
	raw := `{
		"id": "p1",
		"user_id": "u1",
		"user": {"id": "u1", "username": "ayse", "user_type": "mp"},
		"content_type": "video",
		"content": "Meclis gündemi",
		"polit_score": "1250.5",
		"like_count": 12,
		"comment_count": "3",
		"share_count": null,
		"view_count": "lots",
		"created_at": "2025-05-01T09:30:00.123456+00:00"
	}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, PostId("p1"), p.Id)
	assert.Equal(t, user.TypeMP, p.UserType())
	assert.Equal(t, ContentVideo, p.ContentType)
	assert.Equal(t, 1250.5, p.PolitScore)
	assert.EqualValues(t, 12, p.LikeCount)
	assert.EqualValues(t, 3, p.CommentCount)
	assert.EqualValues(t, 0, p.ShareCount)
	assert.EqualValues(t, 0, p.ViewCount)
	assert.True(t, p.CreatedAt.Equal(time.Date(2025, 5, 1, 9, 30, 0, 123456000, time.UTC)))
}

func TestUnmarshalOddNumbers(t *testing.T) {
	raw := `{
		"polit_score": true,
		"like_count": "1e20",
		"view_count": 2.9,
		"comment_count": 1e19,
		"share_count": -4
	}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, 0.0, p.PolitScore)
	assert.EqualValues(t, math.MaxInt64, p.LikeCount)
	assert.EqualValues(t, 2, p.ViewCount)
	assert.EqualValues(t, math.MaxInt64, p.CommentCount)
	assert.EqualValues(t, 0, p.ShareCount)

	require.NoError(t, json.Unmarshal([]byte(`{"like_count": false, "polit_score": " 12 "}`), &p))
	assert.EqualValues(t, 0, p.LikeCount)
	assert.Equal(t, 12.0, p.PolitScore)
}

func TestUnmarshalTimestamps(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"missing", `{}`, time.Time{}},
		{"garbage", `{"created_at": "yesterday-ish"}`, time.Time{}},
		{"unix seconds", `{"created_at": 1700000000}`, time.Unix(1700000000, 0)},
		{"unix millis", `{"created_at": 1700000000000}`, time.UnixMilli(1700000000000)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p Post
			require.NoError(t, json.Unmarshal([]byte(c.raw), &p))
			assert.True(t, c.want.Equal(p.CreatedAt), "got %v", p.CreatedAt)
		})
	}
}

func TestUnmarshalPostArray(t *testing.T) {
	var posts []*Post
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"a","like_count":"7"},{"id":"b"}]`), &posts))
	require.Len(t, posts, 2)
	assert.EqualValues(t, 7, posts[0].LikeCount)
	assert.Nil(t, posts[1].User)
	assert.Equal(t, "", string(posts[1].UserType()))
}

func TestContentType(t *testing.T) {
	assert.True(t, ContentText.LowRichness())
	assert.True(t, ContentAudio.LowRichness())
	assert.False(t, ContentImage.LowRichness())
	assert.False(t, ContentType("").LowRichness())
	assert.False(t, ContentType("poll").Valid())
}
