package agenda

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	. "polithane/pkg/common"
	"polithane/pkg/logger"
	"polithane/pkg/sessions"
	"polithane/pkg/user"
)

const (
	defaultListSize = 10
	maxListSize     = 50
)

type IAgendaRepo interface {
	List(ctx context.Context, limit int) ([]*Agenda, error)
	GetBySlug(ctx context.Context, slug string) (*Agenda, error)
	Add(ctx context.Context, a *Agenda) (string, error)
}

type AgendaHandler struct {
	Repo IAgendaRepo
}

func NewAgendaHandler(repo IAgendaRepo) *AgendaHandler {
	return &AgendaHandler{Repo: repo}
}

func (ah *AgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit := QueryInt(r, "limit", defaultListSize, maxListSize)
	agendas, err := ah.Repo.List(r.Context(), limit)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load agendas: %v", err)
		WriteMsg(w, "failed loading agendas", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, agendas)
}

func (ah *AgendaHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	slug := mux.Vars(r)["slug"]
	a, err := ah.Repo.GetBySlug(r.Context(), slug)
	if errors.Is(err, ErrNotFound) {
		WriteMsg(w, "agenda not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load agenda %s: %v", slug, err)
		WriteMsg(w, "failed loading agenda", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, a)
}

type newAgendaReq struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	PolitScore float64 `json:"polit_score"`
	IsTrending bool    `json:"is_trending"`
}

func (ah *AgendaHandler) Add(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	authUser, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}
	if authUser.UserType != user.TypeAdmin {
		WriteMsg(w, "only admins can add agendas", http.StatusForbidden)
		return
	}

	req := new(newAgendaReq)
	if err := ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Warnf("can't parse agenda from request body: %v", err)
		WriteMsg(w, "can't parse agenda", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		WriteMsg(w, "agenda title is empty", http.StatusBadRequest)
		return
	}
	if req.Slug == "" {
		req.Slug = req.Title
	}

	a := &Agenda{
		Title:      req.Title,
		Slug:       Slugify(req.Slug),
		PolitScore: req.PolitScore,
		IsTrending: req.IsTrending,
	}
	if a.Slug == "" {
		WriteMsg(w, "agenda slug is empty", http.StatusBadRequest)
		return
	}

	if _, err := ah.Repo.Add(r.Context(), a); err != nil {
		logger.Log(r.Context()).Errorf("can't add agenda %s: %v", a.Slug, err)
		WriteMsg(w, "failed adding agenda", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, a)
}
