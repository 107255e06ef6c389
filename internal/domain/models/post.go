// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reaction types a user may put on a post.
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionLaugh = "laugh"
	ReactionWow   = "wow"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

// ValidReactionType reports whether t is a known reaction type.
func ValidReactionType(t string) bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Reaction is a single user's reaction to a post. A user has at most one;
// repeating the same type toggles it off, a different type replaces it.
type Reaction struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// PostStats is derived wholesale from the current active comment and
// reaction records. It is always replaced by a full recomputation,
// never adjusted incrementally.
type PostStats struct {
	CommentCount    int `bson:"comment_count" json:"comment_count"`
	ReactionCount   int `bson:"reaction_count" json:"reaction_count"`
	EngagementScore int `bson:"engagement_score" json:"engagement_score"`
}

// GroupPost is a post inside a group. Posts are soft-deleted (IsActive=false),
// never removed. Version is the optimistic concurrency token.
type GroupPost struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`
	Content  string             `bson:"content" json:"content"`
	Media    []string           `bson:"media,omitempty" json:"media,omitempty"` // storage references only

	IsActive bool `bson:"is_active" json:"is_active"`
	IsPinned bool `bson:"is_pinned" json:"is_pinned"`

	Reactions []Reaction `bson:"reactions,omitempty" json:"reactions,omitempty"`
	Stats     PostStats  `bson:"stats" json:"stats"`
	Version   int64      `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ReactionBy returns this user's reaction, or nil.
func (p *GroupPost) ReactionBy(userID primitive.ObjectID) *Reaction {
	for i := range p.Reactions {
		if p.Reactions[i].UserID == userID {
			return &p.Reactions[i]
		}
	}
	return nil
}
