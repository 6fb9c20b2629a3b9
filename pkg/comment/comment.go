package comment

import (
	"time"

	"polithane/pkg/user"
)

type CommentId string

type Comment struct {
	Id      CommentId  `json:"id" bson:"id"`
	Author  *user.User `json:"user" bson:"user"`
	Created time.Time  `json:"created_at" bson:"created_at"`
	Body    string     `json:"content" bson:"content"`
}
