package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polithane/pkg/agenda"
	"polithane/pkg/hitfeed"
	"polithane/pkg/post"
	"polithane/pkg/user"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakePosts struct {
	posts []*post.Post
	err   error
	asked [][2]int
}

func (f *fakePosts) GetRecent(_ context.Context, offset, limit int) ([]*post.Post, error) {
	f.asked = append(f.asked, [2]int{offset, limit})
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.posts) {
		return []*post.Post{}, nil
	}
	out := f.posts[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAgendas struct {
	agendas []*agenda.Agenda
	err     error
}

func (f *fakeAgendas) Trending(_ context.Context, limit int) ([]*agenda.Agenda, error) {
	return f.agendas, f.err
}

func samplePosts(n int) []*post.Post {
	out := make([]*post.Post, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &post.Post{
			Id:          post.PostId(fmt.Sprintf("p%d", i)),
			UserId:      fmt.Sprintf("u%d", i%3),
			User:        &user.User{Id: fmt.Sprintf("u%d", i%3), UserType: user.TypeMP},
			ContentType: post.ContentImage,
			PolitScore:  float64(i),
			CreatedAt:   now,
		})
	}
	return out
}

func newHandler(posts *fakePosts, agendas *fakeAgendas, poolSize int) *FeedHandler {
	fh := NewFeedHandler(posts, agendas, poolSize)
	fh.Ranker.Now = func() time.Time { return now }
	return fh
}

func TestHome(t *testing.T) {
	posts := &fakePosts{posts: samplePosts(30)}
	agendas := &fakeAgendas{agendas: []*agenda.Agenda{{Slug: "ekonomi"}}}
	fh := newHandler(posts, agendas, 0)

	w := httptest.NewRecorder()
	fh.Home(w, httptest.NewRequest("GET", "/api/feed/home", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got HomeFeed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	// three authors, two posts each
	require.Len(t, got.Hit, 6)
	assert.Equal(t, post.PostId("p29"), got.Hit[0].Id)
	assert.Len(t, got.Agendas, 1)
	assert.Equal(t, [][2]int{{0, DefaultPoolSize}}, posts.asked)
}

func TestHomeConfigured(t *testing.T) {
	fh := newHandler(&fakePosts{posts: samplePosts(30)}, &fakeAgendas{}, 0)
	fh.HomeCfg.PerUserCap = 1

	w := httptest.NewRecorder()
	fh.Home(w, httptest.NewRequest("GET", "/api/feed/home", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got HomeFeed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	ids := make([]post.PostId, 0, len(got.Hit))
	for _, p := range got.Hit {
		ids = append(ids, p.Id)
	}
	assert.Equal(t, []post.PostId{"p29", "p28", "p27"}, ids)
	assert.Equal(t, hitfeed.HitPageConfig, fh.HitPageCfg)
}

func TestHomeErrors(t *testing.T) {
	fh := newHandler(&fakePosts{}, &fakeAgendas{err: errors.New("pg down")}, 10)
	w := httptest.NewRecorder()
	fh.Home(w, httptest.NewRequest("GET", "/api/feed/home", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	fh = newHandler(&fakePosts{err: errors.New("mongo down")}, &fakeAgendas{}, 10)
	w = httptest.NewRecorder()
	fh.Home(w, httptest.NewRequest("GET", "/api/feed/home", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHomeEmpty(t *testing.T) {
	fh := newHandler(&fakePosts{}, &fakeAgendas{}, 10)
	w := httptest.NewRecorder()
	fh.Home(w, httptest.NewRequest("GET", "/api/feed/home", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hit":[],"agendas":[]}`, w.Body.String())
}

func TestHit(t *testing.T) {
	posts := &fakePosts{posts: samplePosts(25)}
	fh := newHandler(posts, &fakeAgendas{}, 10)

	var page HitPage
	w := httptest.NewRecorder()
	fh.Hit(w, httptest.NewRequest("GET", "/api/feed/hit", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 10, page.NextOffset)
	assert.True(t, page.HasMore)
	assert.Len(t, page.Posts, 9)

	w = httptest.NewRecorder()
	fh.Hit(w, httptest.NewRequest("GET", "/api/feed/hit?offset=20", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 25, page.NextOffset)
	assert.False(t, page.HasMore)
	assert.Equal(t, post.PostId("p24"), page.Posts[0].Id)

	posts.err = errors.New("mongo down")
	w = httptest.NewRecorder()
	fh.Hit(w, httptest.NewRequest("GET", "/api/feed/hit", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
