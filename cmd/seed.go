package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"

	"polithane/pkg/agenda"
	"polithane/pkg/comment"
	. "polithane/pkg/common"
	"polithane/pkg/fast"
	"polithane/pkg/logger"
	"polithane/pkg/post"
	"polithane/pkg/user"
)

const seedPassword = "sdfsdfsdf"

var (
	f             = faker.New()
	onePassForAll = HashPass(seedPassword, RandStringRunes(SaltLen))

	seedTypes = []user.UserType{
		user.TypeMP, user.TypePartyOfficial, user.TypeCitizen,
		user.TypeCitizen, user.TypePartyMember, user.TypeMedia,
	}
	seedContentTypes = []post.ContentType{post.ContentText, post.ContentImage, post.ContentVideo, post.ContentAudio}
	seedAgendas      = []string{"Ekonomi", "Asgari Ücret", "Eğitim", "Sağlık", "Dış Politika", "Yerel Seçimler"}
)

type (
	IUserRepo interface {
		Add(context.Context, *user.User) (string, error)
		GetAll(context.Context) ([]*user.User, error)
	}
	IPostAdder interface {
		Add(context.Context, *post.Post) (post.PostId, error)
	}
	IAgendaAdder interface {
		Add(context.Context, *agenda.Agenda) (string, error)
	}
	IFastAdder interface {
		Add(context.Context, *fast.Fast) (string, error)
	}
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the databases with fake users, agendas, posts and fasts",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().Int("users", 6, "users to create when the users table is empty")
	seedCmd.Flags().Int("posts", 60, "posts to create")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()
	zl := logger.Run(cfg.Log.Level)
	defer func() { _ = zl.Sync() }()
	ctx := logger.WithLogger(cmd.Context(), zl)

	nUsers, _ := cmd.Flags().GetInt("users")
	nPosts, _ := cmd.Flags().GetInt("posts")

	db, err := connectPostgres(ctx, zl, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	mongoClient, err := connectMongo(ctx, zl, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	svc := newServices(db, mongoClient.Database(cfg.Mongo.Database).Collection("posts"), nil, cfg)
	return seed(ctx, svc.users, svc.posts, svc.agendas, svc.fasts, nUsers, nPosts)
}

func seed(ctx context.Context, userRepo IUserRepo, postRepo IPostAdder, agendaRepo IAgendaAdder, fastRepo IFastAdder, nUsers, nPosts int) error {
	authors, err := userRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("seed: can't get all authors: %w", err)
	}

	if len(authors) == 0 {
		if err := createAuthors(ctx, userRepo, nUsers); err != nil {
			return err
		}
		if authors, err = userRepo.GetAll(ctx); err != nil {
			return fmt.Errorf("seed: can't get all authors: %w", err)
		}
	}
	if len(authors) == 0 {
		return fmt.Errorf("seed: no authors to write posts")
	}

	tags := make([]string, 0, len(seedAgendas))
	for _, title := range seedAgendas {
		a := &agenda.Agenda{
			Title:      title,
			Slug:       agenda.Slugify(title),
			PolitScore: float64(rand.Intn(1000)),
			IsTrending: rand.Intn(2) == 0,
		}
		if _, err := agendaRepo.Add(ctx, a); err != nil {
			logger.Log(ctx).Warnf("seed: can't add agenda %s: %v", a.Slug, err)
		}
		tags = append(tags, a.Slug)
	}

	for i := 0; i < nPosts; i++ {
		if _, err := postRepo.Add(ctx, genPost(authors, tags)); err != nil {
			return fmt.Errorf("seed: can't add post: %w", err)
		}
	}

	for _, a := range authors {
		if rand.Intn(3) != 0 {
			continue
		}
		fst := &fast.Fast{
			UserId:      a.Id,
			MediaURL:    f.Internet().URL(),
			ContentType: post.ContentImage,
			Created:     time.Now().Add(-time.Duration(rand.Intn(20)) * time.Hour),
		}
		if _, err := fastRepo.Add(ctx, fst); err != nil {
			return fmt.Errorf("seed: can't add fast: %w", err)
		}
	}

	logger.Log(ctx).Infow("seeded", "authors", len(authors), "posts", nPosts, "agendas", len(tags))
	return nil
}

func createAuthors(ctx context.Context, userRepo IUserRepo, n int) error {
	// User for experiments (not random)
	_, err := userRepo.Add(ctx, &user.User{
		Username: "pike",
		Password: onePassForAll,
		FullName: "Rob Pike",
		UserType: user.TypeMP,
	})
	if err != nil {
		return fmt.Errorf("seed: can't create default user: %w", err)
	}
	for i := 1; i <= n; i++ {
		if err := genUser(ctx, userRepo, i); err != nil {
			return err
		}
	}
	return nil
}

func genUser(ctx context.Context, userRepo IUserRepo, i int) error {
	first := f.Person().FirstName()
	last := f.Person().LastName()
	u := user.User{
		// suffix keeps usernames unique across runs
		Username: fmt.Sprintf("%s%d", strings.ToLower(first), i),
		Password: onePassForAll,
		FullName: first + " " + last,
		UserType: seedTypes[rand.Intn(len(seedTypes))],
	}
	if _, err := userRepo.Add(ctx, &u); err != nil {
		return fmt.Errorf("seed: can't add user: %w", err)
	}
	return nil
}

func genComments(users []*user.User) []*comment.Comment {
	n := rand.Intn(6)
	comments := []*comment.Comment{}
	for i := 0; i < n; i++ {
		comments = append(comments, &comment.Comment{
			Id:      comment.CommentId(uuid.NewString()),
			Author:  randUser(users),
			Created: f.Time().Time(time.Now()),
			Body:    f.Lorem().Sentence(rand.Intn(10) + 3),
		})
	}
	return comments
}

func genText() string {
	return f.Lorem().Paragraph(rand.Intn(3) + 1)
}

func genPost(users []*user.User, tags []string) *post.Post {
	author := randUser(users)
	ct := seedContentTypes[rand.Intn(len(seedContentTypes))]

	p := &post.Post{
		Id:          post.PostId(uuid.NewString()),
		UserId:      author.Id,
		User:        author,
		ContentType: ct,
		Content:     genText(),
		PolitScore:  float64(rand.Intn(500)),
		LikeCount:   int64(rand.Intn(300)),
		ShareCount:  int64(rand.Intn(20)),
		ViewCount:   int64(rand.Intn(10000)),
		Comments:    genComments(users),
		CreatedAt:   time.Now().Add(-time.Duration(rand.Intn(72*60)) * time.Minute),
	}
	p.CommentCount = int64(len(p.Comments))
	if ct != post.ContentText {
		p.MediaURL = f.Internet().URL()
	}
	if len(tags) > 0 && rand.Intn(2) == 0 {
		p.AgendaTag = tags[rand.Intn(len(tags))]
	}
	return p
}

func randUser(users []*user.User) *user.User {
	idx := rand.Intn(len(users))
	return users[idx]
}
