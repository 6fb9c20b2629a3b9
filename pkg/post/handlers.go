package post

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"polithane/pkg/comment"
	. "polithane/pkg/common"
	"polithane/pkg/logger"
	"polithane/pkg/sessions"
	"polithane/pkg/user"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxContentLen   = 5000
)

type IPostRepo interface {
	GetAll(context.Context) ([]*Post, error)
	GetRecent(ctx context.Context, offset, limit int) ([]*Post, error)
	GetById(context.Context, PostId) (*Post, error)
	GetUserPosts(context.Context, string) ([]*Post, error)
	GetAgendaPosts(context.Context, string) ([]*Post, error)

	Add(context.Context, *Post) (PostId, error)
	Update(context.Context, *Post) error
	IncrementViews(context.Context, PostId) error

	ToggleLike(context.Context, *Post, string) (bool, error)

	Delete(context.Context, PostId) error
	DeletePostComment(context.Context, PostId, comment.CommentId) (*Post, error)

	AddComment(context.Context, PostId, *user.User, string) (*Post, error)
}

type PostHandler struct {
	PostRepo IPostRepo
	now      func() time.Time
}

func NewPostHandler(postRepo IPostRepo) *PostHandler {
	return &PostHandler{
		PostRepo: postRepo,
		now:      time.Now,
	}
}

type newPostReq struct {
	ContentType ContentType `json:"content_type"`
	Content     string      `json:"content"`
	MediaURL    string      `json:"media_url"`
	AgendaTag   string      `json:"agenda_tag"`
}

func (req *newPostReq) validate() error {
	req.Content = strings.TrimSpace(req.Content)
	req.MediaURL = strings.TrimSpace(req.MediaURL)
	if req.ContentType == "" {
		req.ContentType = ContentText
	}
	if !req.ContentType.Valid() {
		return errors.New("unknown content type")
	}
	if req.ContentType == ContentText && req.Content == "" {
		return errors.New("text post needs content")
	}
	if req.ContentType != ContentText && req.MediaURL == "" {
		return errors.New("media post needs media_url")
	}
	if len([]rune(req.Content)) > maxContentLen {
		return errors.New("content is too long")
	}
	return nil
}

func (ph *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	offset := QueryInt(r, "offset", 0, 0)
	limit := QueryInt(r, "limit", defaultPageSize, maxPageSize)

	posts, err := ph.PostRepo.GetRecent(r.Context(), offset, limit)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts from the repo: %v", err)
		WriteMsg(w, "failed loading posts", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, posts)
}

func (ph *PostHandler) Add(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	author, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	req := new(newPostReq)
	if err := ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Warnf("can't parse post from request body: %v", err)
		WriteMsg(w, "can't parse post", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		WriteMsg(w, err.Error(), http.StatusBadRequest)
		return
	}

	post := &Post{
		Id:          PostId(uuid.NewString()),
		UserId:      author.Id,
		User:        author,
		ContentType: req.ContentType,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
		AgendaTag:   req.AgendaTag,
		CreatedAt:   ph.now(),
	}

	if _, err := ph.PostRepo.Add(r.Context(), post); err != nil {
		logger.Log(r.Context()).Errorf("can't add post to the repo: %v", err)
		WriteMsg(w, "failed adding post", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, post)
}

// loadPost writes the error response itself and returns nil when the post
// can't be loaded.
func (ph *PostHandler) loadPost(w http.ResponseWriter, r *http.Request) *Post {
	postId := PostId(mux.Vars(r)["post_id"])
	post, err := ph.PostRepo.GetById(r.Context(), postId)
	if errors.Is(err, ErrNotFound) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return nil
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't get post with id %s: %v", postId, err)
		WriteMsg(w, "failed loading post", http.StatusInternalServerError)
		return nil
	}
	return post
}

func (ph *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	post := ph.loadPost(w, r)
	if post == nil {
		return
	}

	if err := ph.PostRepo.IncrementViews(r.Context(), post.Id); err != nil {
		logger.Log(r.Context()).Warnf("can't count view of post %s: %v", post.Id, err)
	} else {
		post.ViewCount++
	}

	WriteRespJSON(w, post)
}

func (ph *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	authUser, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	post := ph.loadPost(w, r)
	if post == nil {
		return
	}

	if post.UserId != authUser.Id {
		WriteMsg(w, "only the author can remove the post", http.StatusForbidden)
		return
	}

	if err := ph.PostRepo.Delete(r.Context(), post.Id); err != nil {
		logger.Log(r.Context()).Errorf("can't remove post: %v", err)
		WriteMsg(w, "removing post failed", http.StatusInternalServerError)
		return
	}

	WriteMsg(w, "success", http.StatusOK)
}

func (ph *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	commenter, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	c := struct {
		Comment string `json:"comment"`
	}{}
	if err := ParseReqBody(r.Body, &c); err != nil {
		logger.Log(r.Context()).Warnf("can't get comment body: %v", err)
		WriteMsg(w, "failed parsing comment body", http.StatusBadRequest)
		return
	}
	c.Comment = strings.TrimSpace(c.Comment)
	if c.Comment == "" {
		WriteMsg(w, "comment is empty", http.StatusBadRequest)
		return
	}

	postId := PostId(mux.Vars(r)["post_id"])
	postWithComment, err := ph.PostRepo.AddComment(r.Context(), postId, commenter, c.Comment)
	if errors.Is(err, ErrNotFound) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't add comment to %s: %v", postId, err)
		WriteMsg(w, "adding comment failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, postWithComment)
}

func (ph *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	authUser, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	post := ph.loadPost(w, r)
	if post == nil {
		return
	}

	commentId := comment.CommentId(mux.Vars(r)["comment_id"])
	var target *comment.Comment
	for _, c := range post.Comments {
		if c.Id == commentId {
			target = c
			break
		}
	}
	if target == nil {
		WriteMsg(w, "comment not found", http.StatusNotFound)
		return
	}
	if (target.Author == nil || target.Author.Id != authUser.Id) && post.UserId != authUser.Id {
		WriteMsg(w, "only the comment or post author can remove the comment", http.StatusForbidden)
		return
	}

	postWithoutComment, err := ph.PostRepo.DeletePostComment(r.Context(), post.Id, commentId)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't remove comment %s from post %s: %v", commentId, post.Id, err)
		WriteMsg(w, "removing comment failed", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, postWithoutComment)
}

func (ph *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	liker, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	post := ph.loadPost(w, r)
	if post == nil {
		return
	}

	liked, err := ph.PostRepo.ToggleLike(r.Context(), post, liker.Id)
	if errors.Is(err, ErrNotFound) {
		WriteMsg(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't toggle like for post %s: %v", post.Id, err)
		WriteMsg(w, "liking failed", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, struct {
		Liked     bool  `json:"liked"`
		LikeCount int64 `json:"like_count"`
	}{liked, post.LikeCount})
}

func (ph *PostHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userId := mux.Vars(r)["user_id"]
	userPosts, err := ph.PostRepo.GetUserPosts(r.Context(), userId)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts of user `%s` from the repo: %v", userId, err)
		WriteMsg(w, "failed loading user posts", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, userPosts)
}

func (ph *PostHandler) GetByAgenda(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tag := mux.Vars(r)["tag"]
	agendaPosts, err := ph.PostRepo.GetAgendaPosts(r.Context(), tag)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load posts of agenda %s: %v", tag, err)
		WriteMsg(w, "failed loading agenda posts", http.StatusInternalServerError)
		return
	}

	WriteRespJSON(w, agendaPosts)
}
