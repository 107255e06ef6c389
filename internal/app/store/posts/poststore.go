// internal/app/store/posts/poststore.go
package poststore

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

const mutateRetries = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_posts")}
}

// Create inserts a new active post.
func (s *Store) Create(ctx context.Context, p models.GroupPost) (models.GroupPost, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.IsActive = true
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.GroupPost{}, apperr.Wrap(err, "insert post")
	}
	return p, nil
}

// GetByID loads a post regardless of active state; callers decide whether
// soft-deleted content is visible.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupPost, error) {
	var p models.GroupPost
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.GroupPost{}, apperr.New(apperr.NotFound, "post not found")
		}
		return models.GroupPost{}, apperr.Wrap(err, "load post")
	}
	return p, nil
}

// Mutate applies fn and writes the result as a single conditional replace
// on {_id, version}, retrying on contention. Same contract as the group
// store: fn must be a pure in-memory transition.
func (s *Store) Mutate(ctx context.Context, id primitive.ObjectID, fn func(*models.GroupPost) error) (models.GroupPost, error) {
	for attempt := 0; attempt < mutateRetries; attempt++ {
		p, err := s.GetByID(ctx, id)
		if err != nil {
			return models.GroupPost{}, err
		}

		prevVersion := p.Version
		if err := fn(&p); err != nil {
			return models.GroupPost{}, err
		}
		p.Version = prevVersion + 1
		p.UpdatedAt = time.Now().UTC()

		res, err := s.c.ReplaceOne(ctx, bson.M{"_id": id, "version": prevVersion}, p)
		if err != nil {
			return models.GroupPost{}, apperr.Wrap(err, "write post")
		}
		if res.ModifiedCount == 1 {
			return p, nil
		}
	}
	return models.GroupPost{}, apperr.New(apperr.Conflict, "the post was modified concurrently; please retry")
}

// ListByGroup returns a group's active posts, pinned first, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, limit, offset int64) ([]models.GroupPost, error) {
	filter := bson.M{"group_id": groupID, "is_active": true}
	opts := options.Find().
		SetSort(bson.D{
			{Key: "is_pinned", Value: -1},
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetSkip(offset).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(err, "list posts")
	}
	defer cur.Close(ctx)

	var posts []models.GroupPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, apperr.Wrap(err, "decode posts")
	}
	return posts, nil
}

// CountActiveByGroup returns the number of active posts in a group.
func (s *Store) CountActiveByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "is_active": true})
	if err != nil {
		return 0, apperr.Wrap(err, "count posts")
	}
	return n, nil
}

// DeactivateByGroup soft-deletes every post in a group. Used by the group
// delete cascade. Returns the number of posts deactivated.
func (s *Store) DeactivateByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"group_id": groupID, "is_active": true},
		bson.M{
			"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return 0, apperr.Wrap(err, "deactivate posts")
	}
	return res.ModifiedCount, nil
}
