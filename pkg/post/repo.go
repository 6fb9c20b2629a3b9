package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"polithane/pkg/comment"
	"polithane/pkg/like"
	"polithane/pkg/user"
)

type Repo struct {
	posts IMongoCollection
	now   func() time.Time
}

func NewPostRepo(postsCol *mongo.Collection) *Repo {
	posts := &MongoCollection{
		Coll: postsCol,
	}
	return &Repo{
		posts: posts,
		now:   time.Now,
	}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

func (r *Repo) Add(ctx context.Context, p *Post) (PostId, error) {
	_, err := r.posts.InsertOne(ctx, p)
	if err != nil {
		return PostId(``), fmt.Errorf("post/repo: failed inserting a post: %w", err)
	}
	return p.Id, nil
}

func (r *Repo) Update(ctx context.Context, p *Post) error {
	_, err := r.posts.UpdateOne(ctx, bson.M{"id": p.Id}, bson.M{"$set": p})
	if err != nil {
		return fmt.Errorf("post/repo: failed updating post: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id PostId) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("post/repo: failed deleting post: %w", err)
	}
	if res.Deleted() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) GetById(ctx context.Context, id PostId) (*Post, error) {
	post := new(Post)
	err := r.posts.FindOne(ctx, bson.M{"id": id}).Decode(post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding post %s: %w", id, err)
	}
	return post, nil
}

func (r *Repo) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]*Post, error) {
	cursor, err := r.posts.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("post/repo: failed getting posts from cursor: %w", err)
	}
	return posts, nil
}

func (r *Repo) GetAll(ctx context.Context) ([]*Post, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// GetRecent returns one page of posts, newest first.
func (r *Repo) GetRecent(ctx context.Context, offset, limit int) ([]*Post, error) {
	if limit <= 0 {
		return []*Post{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *Repo) GetUserPosts(ctx context.Context, userId string) ([]*Post, error) {
	filter := bson.D{{Key: "user_id", Value: userId}}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

func (r *Repo) GetAgendaPosts(ctx context.Context, tag string) ([]*Post, error) {
	filter := bson.D{{Key: "agenda_tag", Value: tag}}
	return r.find(ctx, filter, options.Find().SetSort(newestFirst))
}

func (r *Repo) AddComment(ctx context.Context, postId PostId, commenter *user.User, commentText string) (*Post, error) {
	cmt := &comment.Comment{
		Id:      comment.CommentId(uuid.NewString()),
		Author:  commenter,
		Created: r.now(),
		Body:    commentText,
	}

	filter := bson.D{{Key: "id", Value: postId}}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: cmt}}},
		{Key: "$inc", Value: bson.D{{Key: "comment_count", Value: 1}}},
	}
	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed adding comment: %w", err)
	}
	if res.Matched() == 0 {
		return nil, ErrNotFound
	}

	return r.GetById(ctx, postId)
}

func (r *Repo) DeletePostComment(ctx context.Context, postId PostId, commentId comment.CommentId) (*Post, error) {
	// Matching on the comment id keeps comment_count untouched for unknown comments.
	filter := bson.D{{Key: "id", Value: postId}, {Key: "comments.id", Value: commentId}}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "comments", Value: bson.D{{Key: "id", Value: commentId}}}}},
		{Key: "$inc", Value: bson.D{{Key: "comment_count", Value: -1}}},
	}
	if _, err := r.posts.UpdateOne(ctx, filter, update); err != nil {
		return nil, fmt.Errorf("post/repo: failed deleting comment: %w", err)
	}

	return r.GetById(ctx, postId)
}

func (r *Repo) IncrementViews(ctx context.Context, id PostId) error {
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "view_count", Value: 1}}}}
	if _, err := r.posts.UpdateOne(ctx, bson.D{{Key: "id", Value: id}}, update); err != nil {
		return fmt.Errorf("post/repo: failed incrementing views: %w", err)
	}
	return nil
}

// ToggleLike removes the user's like when present and adds one otherwise.
// Both branches are single conditional updates, so concurrent likes and
// comments on the same post are never overwritten. post is refreshed from
// the stored document.
func (r *Repo) ToggleLike(ctx context.Context, post *Post, userId string) (bool, error) {
	unlike := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "likes", Value: bson.D{{Key: "user_id", Value: userId}}}}},
		{Key: "$inc", Value: bson.D{{Key: "like_count", Value: -1}}},
	}
	filter := bson.D{{Key: "id", Value: post.Id}, {Key: "likes.user_id", Value: userId}}
	res, err := r.posts.UpdateOne(ctx, filter, unlike)
	if err != nil {
		return false, fmt.Errorf("post/repo: failed removing like: %w", err)
	}

	if res.Matched() == 0 {
		doLike := bson.D{
			{Key: "$push", Value: bson.D{{Key: "likes", Value: &like.Like{UserId: userId, Created: r.now()}}}},
			{Key: "$inc", Value: bson.D{{Key: "like_count", Value: 1}}},
		}
		filter = bson.D{
			{Key: "id", Value: post.Id},
			{Key: "likes.user_id", Value: bson.D{{Key: "$ne", Value: userId}}},
		}
		if _, err := r.posts.UpdateOne(ctx, filter, doLike); err != nil {
			return false, fmt.Errorf("post/repo: failed adding like: %w", err)
		}
	}

	// a racing toggle by the same user may have won, report what is stored
	fresh, err := r.GetById(ctx, post.Id)
	if err != nil {
		return false, err
	}
	*post = *fresh
	return like.LikedBy(post.Likes, userId), nil
}
