package fast

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	. "polithane/pkg/common"
	"polithane/pkg/logger"
	"polithane/pkg/post"
	"polithane/pkg/sessions"
)

type IFastRepo interface {
	Add(ctx context.Context, f *Fast) (string, error)
	ListActive(ctx context.Context, now time.Time) ([]*Fast, error)
}

type FastHandler struct {
	Repo IFastRepo
	now  func() time.Time
}

func NewFastHandler(repo IFastRepo) *FastHandler {
	return &FastHandler{
		Repo: repo,
		now:  time.Now,
	}
}

func (fh *FastHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	fasts, err := fh.Repo.ListActive(r.Context(), fh.now())
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load active fasts: %v", err)
		WriteMsg(w, "failed loading fasts", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, fasts)
}

func (fh *FastHandler) Add(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	author, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	req := struct {
		MediaURL    string           `json:"media_url"`
		ContentType post.ContentType `json:"content_type"`
	}{}
	if err := ParseReqBody(r.Body, &req); err != nil {
		logger.Log(r.Context()).Warnf("can't parse fast from request body: %v", err)
		WriteMsg(w, "can't parse fast", http.StatusBadRequest)
		return
	}
	req.MediaURL = strings.TrimSpace(req.MediaURL)
	if req.ContentType == "" {
		req.ContentType = post.ContentImage
	}
	if req.ContentType != post.ContentImage && req.ContentType != post.ContentVideo {
		WriteMsg(w, "fasts are images or videos", http.StatusBadRequest)
		return
	}
	if req.MediaURL == "" {
		WriteMsg(w, "fast needs media_url", http.StatusBadRequest)
		return
	}

	f := &Fast{
		Id:          uuid.NewString(),
		UserId:      author.Id,
		MediaURL:    req.MediaURL,
		ContentType: req.ContentType,
		Created:     fh.now(),
	}
	if _, err := fh.Repo.Add(r.Context(), f); err != nil {
		logger.Log(r.Context()).Errorf("can't add fast: %v", err)
		WriteMsg(w, "failed adding fast", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, f)
}
