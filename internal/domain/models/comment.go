// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupComment is a comment on a group post, optionally threaded under a
// parent comment. Comments are soft-deleted (IsActive=false), never removed.
type GroupComment struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	PostID          primitive.ObjectID  `bson:"post_id" json:"post_id"`
	GroupID         primitive.ObjectID  `bson:"group_id" json:"group_id"`
	AuthorID        primitive.ObjectID  `bson:"author_id" json:"author_id"`
	Content         string              `bson:"content" json:"content"`
	ParentCommentID *primitive.ObjectID `bson:"parent_comment_id,omitempty" json:"parent_comment_id,omitempty"`

	IsActive bool `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
