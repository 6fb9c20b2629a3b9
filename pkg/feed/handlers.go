// Package feed serves the ranked home and Hit feeds.
package feed

import (
	"context"
	"net/http"

	"github.com/sourcegraph/conc/pool"

	"polithane/pkg/agenda"
	. "polithane/pkg/common"
	"polithane/pkg/hitfeed"
	"polithane/pkg/logger"
	"polithane/pkg/post"
)

const (
	DefaultPoolSize    = 200
	DefaultAgendaLimit = 10
)

type PostSource interface {
	GetRecent(ctx context.Context, offset, limit int) ([]*post.Post, error)
}

type AgendaSource interface {
	Trending(ctx context.Context, limit int) ([]*agenda.Agenda, error)
}

type FeedHandler struct {
	Posts    PostSource
	Agendas  AgendaSource
	Ranker   *hitfeed.Ranker
	PoolSize int

	AgendaLimit int
	HomeCfg     hitfeed.Config
	HitPageCfg  hitfeed.Config
}

func NewFeedHandler(posts PostSource, agendas AgendaSource, poolSize int) *FeedHandler {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &FeedHandler{
		Posts:       posts,
		Agendas:     agendas,
		Ranker:      hitfeed.NewRanker(),
		PoolSize:    poolSize,
		AgendaLimit: DefaultAgendaLimit,
		HomeCfg:     hitfeed.HomeConfig,
		HitPageCfg:  hitfeed.HitPageConfig,
	}
}

type HomeFeed struct {
	Hit     []*post.Post     `json:"hit"`
	Agendas []*agenda.Agenda `json:"agendas"`
}

type HitPage struct {
	Posts      []*post.Post `json:"posts"`
	NextOffset int          `json:"next_offset"`
	HasMore    bool         `json:"has_more"`
}

// Home loads the newest post pool and the trending agendas concurrently.
func (fh *FeedHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var (
		postPool []*post.Post
		agendas  []*agenda.Agenda
		p        = pool.New().WithContext(r.Context()).WithCancelOnError()
	)
	p.Go(func(ctx context.Context) error {
		var err error
		postPool, err = fh.Posts.GetRecent(ctx, 0, fh.PoolSize)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		agendas, err = fh.Agendas.Trending(ctx, fh.AgendaLimit)
		return err
	})
	if err := p.Wait(); err != nil {
		logger.Log(r.Context()).Errorf("can't load home feed: %v", err)
		WriteMsg(w, "failed loading feed", http.StatusInternalServerError)
		return
	}

	if agendas == nil {
		agendas = []*agenda.Agenda{}
	}
	WriteRespJSON(w, HomeFeed{
		Hit:     fh.Ranker.Rank(postPool, fh.HomeCfg),
		Agendas: agendas,
	})
}

// Hit ranks one pool page. Clients page through with next_offset.
func (fh *FeedHandler) Hit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	offset := QueryInt(r, "offset", 0, 0)
	postPool, err := fh.Posts.GetRecent(r.Context(), offset, fh.PoolSize)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load hit feed pool at offset %d: %v", offset, err)
		WriteMsg(w, "failed loading feed", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, HitPage{
		Posts:      fh.Ranker.Rank(postPool, fh.HitPageCfg),
		NextOffset: offset + len(postPool),
		HasMore:    len(postPool) == fh.PoolSize,
	})
}
