package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"polithane/pkg/common"
	"polithane/pkg/logger"
	"polithane/pkg/sessions"
	"polithane/pkg/user"
)

const minPasswordLen = 6

type (
	UserRepo interface {
		UserExists(context.Context, string) bool
		GetByUsernameAndPass(context.Context, string, string) (*user.User, error)
		GetByUsername(context.Context, string) (*user.User, error)
		Add(context.Context, *user.User) (string, error)
		Follow(ctx context.Context, followerId, followingId string) error
		Unfollow(ctx context.Context, followerId, followingId string) error
		FollowCounts(ctx context.Context, uid string) (int, int, error)
	}

	SessionManager interface {
		CreateToken(*user.User) (string, error)
		CleanupUserSessions(ctx context.Context, userId string) error
	}

	UserHandler struct {
		Repo           UserRepo
		SessionManager SessionManager
	}

	HttpUser struct {
		Username string        `json:"username"`
		Password string        `json:"password"`
		FullName string        `json:"full_name"`
		UserType user.UserType `json:"user_type"`
		PartyID  string        `json:"party_id"`
	}
)

func NewUserHandler(r UserRepo, sm SessionManager) *UserHandler {
	return &UserHandler{
		Repo:           r,
		SessionManager: sm,
	}
}

func (uh UserHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	httpUser := new(HttpUser)
	err := common.ParseReqBody(r.Body, httpUser)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as user: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	user, err := uh.Repo.GetByUsernameAndPass(r.Context(), httpUser.Username, httpUser.Password)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't get the user by username `%s` and password: %v",
			httpUser.Username, err)
		common.WriteMsg(w, "user not found", http.StatusNotFound)
		return
	}

	// Remove expired user session if there are any
	if err := uh.SessionManager.CleanupUserSessions(r.Context(), user.Id); err != nil {
		logger.Log(r.Context()).Errorf("user/handlers: can't cleanup sessions for user `%s`, %v", httpUser.Username, err)
		common.WriteMsg(w, "failed managing user sessions", http.StatusInternalServerError)
		return
	}

	uh.sendToken(w, r, user, http.StatusOK)
}

func (req *HttpUser) validate() error {
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" {
		return errors.New("username is empty")
	}
	if len(req.Password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if req.UserType == "" {
		req.UserType = user.TypeCitizen
	}
	if !req.UserType.Valid() {
		return fmt.Errorf("unknown user type %q", req.UserType)
	}
	if req.UserType == user.TypeAdmin {
		return errors.New("admin accounts can't be registered")
	}
	return nil
}

func (uh UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	httpUser := new(HttpUser)
	err := common.ParseReqBody(r.Body, httpUser)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as user: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}
	if err := httpUser.validate(); err != nil {
		common.WriteMsg(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Check if user already exists
	if uh.Repo.UserExists(r.Context(), httpUser.Username) {
		msg := fmt.Sprintf(`user "%s" already exists`, httpUser.Username)
		logger.Log(r.Context()).Warn(msg)
		common.WriteMsg(w, msg, http.StatusConflict)
		return
	}

	salt := common.RandStringRunes(common.SaltLen)
	pass := common.HashPass(httpUser.Password, salt)
	newUser := &user.User{
		Username: httpUser.Username,
		Password: pass,
		FullName: httpUser.FullName,
		UserType: httpUser.UserType,
		PartyID:  httpUser.PartyID,
		// Id is handled below
	}
	id, err := uh.Repo.Add(r.Context(), newUser)
	if errors.Is(err, user.ErrUserExists) {
		msg := fmt.Sprintf(`user "%s" already exists`, httpUser.Username)
		logger.Log(r.Context()).Warn(msg)
		common.WriteMsg(w, msg, http.StatusConflict)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't add user `%s`: %v", httpUser.Username, err)
		common.WriteMsg(w, "can't add user", http.StatusInternalServerError)
		return
	}
	newUser.Id = id

	uh.sendToken(w, r, newUser, http.StatusCreated)
}

// loadProfileUser writes the error response itself and returns nil when the
// user from the route can't be loaded.
func (uh UserHandler) loadProfileUser(w http.ResponseWriter, r *http.Request) *user.User {
	username := mux.Vars(r)["username"]
	u, err := uh.Repo.GetByUsername(r.Context(), username)
	if errors.Is(err, user.ErrNotFound) {
		common.WriteMsg(w, "user not found", http.StatusNotFound)
		return nil
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load user `%s`: %v", username, err)
		common.WriteMsg(w, "failed loading user", http.StatusInternalServerError)
		return nil
	}
	return u
}

func (uh UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u := uh.loadProfileUser(w, r)
	if u == nil {
		return
	}

	followers, following, err := uh.Repo.FollowCounts(r.Context(), u.Id)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't count follows of `%s`: %v", u.Username, err)
		common.WriteMsg(w, "failed loading profile", http.StatusInternalServerError)
		return
	}

	common.WriteRespJSON(w, user.Profile{User: u, Followers: followers, Following: following})
}

func (uh UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	uh.changeFollow(w, r, true)
}

func (uh UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	uh.changeFollow(w, r, false)
}

func (uh UserHandler) changeFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	w.Header().Set("Content-Type", "application/json")

	authUser, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteMsg(w, "not authorized", http.StatusUnauthorized)
		return
	}

	target := uh.loadProfileUser(w, r)
	if target == nil {
		return
	}

	if follow {
		err = uh.Repo.Follow(r.Context(), authUser.Id, target.Id)
	} else {
		err = uh.Repo.Unfollow(r.Context(), authUser.Id, target.Id)
	}
	if errors.Is(err, user.ErrSelfFollow) {
		common.WriteMsg(w, "you can't follow yourself", http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't change follow %s -> %s: %v", authUser.Id, target.Id, err)
		common.WriteMsg(w, "failed changing follow", http.StatusInternalServerError)
		return
	}

	common.WriteMsg(w, "success", http.StatusOK)
}

func (uh *UserHandler) sendToken(w http.ResponseWriter, r *http.Request, user *user.User, code int) {
	token, err := uh.SessionManager.CreateToken(user)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't create JWT token from user: %v", err)
		common.WriteMsg(w, "user authentication failed", http.StatusInternalServerError)
		return
	}

	tk := struct {
		Token string `json:"token"`
	}{token}
	w.WriteHeader(code)
	common.WriteRespJSON(w, tk)
}
