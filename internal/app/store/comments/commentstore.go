// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_comments")}
}

// Create inserts a new active comment.
func (s *Store) Create(ctx context.Context, c models.GroupComment) (models.GroupComment, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.IsActive = true
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.GroupComment{}, apperr.Wrap(err, "insert comment")
	}
	return c, nil
}

// GetByID loads a comment regardless of active state.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupComment, error) {
	var c models.GroupComment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.GroupComment{}, apperr.New(apperr.NotFound, "comment not found")
		}
		return models.GroupComment{}, apperr.Wrap(err, "load comment")
	}
	return c, nil
}

// ListByPost returns a post's active comments, oldest first.
func (s *Store) ListByPost(ctx context.Context, postID primitive.ObjectID, limit, offset int64) ([]models.GroupComment, error) {
	filter := bson.M{"post_id": postID, "is_active": true}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(err, "list comments")
	}
	defer cur.Close(ctx)

	var comments []models.GroupComment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, apperr.Wrap(err, "decode comments")
	}
	return comments, nil
}

// UpdateContent replaces a comment's content.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"content": content, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(err, "update comment")
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "comment not found")
	}
	return nil
}

// Deactivate soft-deletes one comment.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Wrap(err, "deactivate comment")
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "comment not found")
	}
	return nil
}

// CountActiveByPost returns the number of active comments on a post. The
// engagement recomputation reads this instead of tracking deltas.
func (s *Store) CountActiveByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"post_id": postID, "is_active": true})
	if err != nil {
		return 0, apperr.Wrap(err, "count comments")
	}
	return n, nil
}

// DeactivateByGroup soft-deletes every comment in a group. Used by the
// group delete cascade.
func (s *Store) DeactivateByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"group_id": groupID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, apperr.Wrap(err, "deactivate comments")
	}
	return res.ModifiedCount, nil
}
