package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"polithane/pkg/agenda"
	"polithane/pkg/config"
	"polithane/pkg/fast"
	"polithane/pkg/feed"
	"polithane/pkg/logger"
	"polithane/pkg/middleware"
	"polithane/pkg/post"
	"polithane/pkg/sessions"
	"polithane/pkg/user"
	"polithane/pkg/user/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	rootCmd.AddCommand(serveCmd)
}

type services struct {
	users    *user.UserRepo
	posts    *post.Repo
	agendas  *agenda.AgendaRepo
	fasts    *fast.FastRepo
	sessions *sessions.SessionManager
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zl := logger.Run(cfg.Log.Level)
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := connectPostgres(ctx, zl, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	mongoClient, err := connectMongo(ctx, zl, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zl.Errorf("main: failed disconnecting from MongoDB: %v", err)
		}
	}()

	redisPool, err := newRedisPool(ctx, zl, cfg.Redis.Addr)
	if err != nil {
		return err
	}
	defer redisPool.Close()

	svc := newServices(db, mongoClient.Database(cfg.Mongo.Database).Collection("posts"), redisPool, cfg)

	sweeper := fast.NewSweeper(svc.fasts, zl)
	if err := sweeper.Schedule(cfg.Fast.SweepSchedule); err != nil {
		return err
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           newRouter(svc, cfg, zl),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Infow("serving", "addr", cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func newServices(db *sql.DB, postsCol *mongo.Collection, pool sessions.Pool, cfg config.Config) *services {
	return &services{
		users:    user.NewUserRepo(db),
		posts:    post.NewPostRepo(postsCol),
		agendas:  agenda.NewAgendaRepo(db),
		fasts:    fast.NewFastRepo(db),
		sessions: sessions.NewSessionManager(cfg.Auth.SecretKey, pool),
	}
}

func newRouter(svc *services, cfg config.Config, zl *zap.SugaredLogger) http.Handler {
	postHandler := post.NewPostHandler(svc.posts)
	userHandler := api.NewUserHandler(svc.users, svc.sessions)
	agendaHandler := agenda.NewAgendaHandler(svc.agendas)
	fastHandler := fast.NewFastHandler(svc.fasts)

	feedHandler := feed.NewFeedHandler(svc.posts, svc.agendas, cfg.Feed.PoolSize)
	feedHandler.HomeCfg = cfg.Feed.Home
	feedHandler.HitPageCfg = cfg.Feed.HitPage

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Posts
	api.HandleFunc("/posts", postHandler.List).Methods("GET")
	api.HandleFunc("/posts", postHandler.Add).Methods("POST")
	api.HandleFunc("/post/{post_id}", postHandler.Get).Methods("GET")
	api.HandleFunc("/post/{post_id}", postHandler.Delete).Methods("DELETE")
	api.HandleFunc("/post/{post_id}/like", postHandler.Like).Methods("POST")
	api.HandleFunc("/user/{user_id}/posts", postHandler.GetByUser).Methods("GET")
	api.HandleFunc("/agenda/{tag}/posts", postHandler.GetByAgenda).Methods("GET")

	// Comments
	api.HandleFunc("/post/{post_id}", postHandler.AddComment).Methods("POST")
	api.HandleFunc("/post/{post_id}/{comment_id}", postHandler.DeleteComment).Methods("DELETE")

	// Feeds
	api.HandleFunc("/feed/home", feedHandler.Home).Methods("GET")
	api.HandleFunc("/feed/hit", feedHandler.Hit).Methods("GET")

	// Agendas
	api.HandleFunc("/agendas", agendaHandler.List).Methods("GET")
	api.HandleFunc("/agendas", agendaHandler.Add).Methods("POST")
	api.HandleFunc("/agendas/{slug}", agendaHandler.Get).Methods("GET")

	// Fasts
	api.HandleFunc("/fasts", fastHandler.List).Methods("GET")
	api.HandleFunc("/fasts", fastHandler.Add).Methods("POST")

	// User
	api.HandleFunc("/register", userHandler.Register).Methods("POST")
	api.HandleFunc("/login", userHandler.LogIn).Methods("POST")
	api.HandleFunc("/profile/{username}", userHandler.Profile).Methods("GET")
	api.HandleFunc("/profile/{username}/follow", userHandler.Follow).Methods("POST")
	api.HandleFunc("/profile/{username}/follow", userHandler.Unfollow).Methods("DELETE")

	// Middlewares run in registration order, so the logger is in ctx before auth
	logMiddleware := middleware.NewLoggingMiddleware(zl)
	r.Use(logMiddleware.SetupTracing)
	r.Use(logMiddleware.SetupLogging)
	r.Use(logMiddleware.AccessLog)

	auth := middleware.NewAuthMiddleware(svc.sessions, svc.users)
	r.Use(auth.Middleware)

	spa := spaHandler{staticPath: cfg.HTTP.StaticDir, indexPath: "index.html"}
	r.PathPrefix("/").Handler(spa)

	// CORS sees preflight requests before route matching
	return middleware.NewCORS(cfg.HTTP.AllowedOrigins).Middleware(r)
}
