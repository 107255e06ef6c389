// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mutateRetries bounds optimistic-concurrency retries before the
// transition is rejected with Conflict.
const mutateRetries = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// Create inserts a new group. The creator becomes the sole initial admin,
// which establishes the at-least-one-admin invariant from the start.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.Members = []models.GroupMember{{
		UserID:   g.CreatorID,
		Role:     models.RoleAdmin,
		JoinedAt: now,
		Approved: true,
	}}
	g.Stats = models.GroupStats{
		MemberCount:   1,
		ActiveMembers: 1,
		LastActivity:  now,
	}
	g.Version = 1
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, apperr.New(apperr.Conflict, "a group with that name already exists")
		}
		return models.Group{}, apperr.Wrap(err, "insert group")
	}
	return g, nil
}

// GetByID loads a group, mapping a missing document to NotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.NotFound, "group not found")
		}
		return models.Group{}, apperr.Wrap(err, "load group")
	}
	return g, nil
}

// Mutate applies fn to the current group document and writes the result as
// a single conditional replace on {_id, version}. On contention the load
// and transition are retried; after mutateRetries failed attempts the
// transition is rejected with Conflict rather than silently lost.
//
// fn must be a pure in-memory transition: no I/O, safe to re-run.
func (s *Store) Mutate(ctx context.Context, id primitive.ObjectID, fn func(*models.Group) error) (models.Group, error) {
	for attempt := 0; attempt < mutateRetries; attempt++ {
		g, err := s.GetByID(ctx, id)
		if err != nil {
			return models.Group{}, err
		}

		prevVersion := g.Version
		if err := fn(&g); err != nil {
			return models.Group{}, err
		}
		g.Version = prevVersion + 1
		g.UpdatedAt = time.Now().UTC()

		res, err := s.c.ReplaceOne(ctx, bson.M{"_id": id, "version": prevVersion}, g)
		if err != nil {
			// A rename can collide with another group's folded name.
			if wafflemongo.IsDup(err) {
				return models.Group{}, apperr.New(apperr.Conflict, "a group with that name already exists")
			}
			return models.Group{}, apperr.Wrap(err, "write group")
		}
		if res.ModifiedCount == 1 {
			return g, nil
		}
		// Version moved under us; reload and retry the transition.
	}
	return models.Group{}, apperr.New(apperr.Conflict, "the group was modified concurrently; please retry")
}

// Delete removes a group document. The caller cascades soft-state cleanup
// of the group's posts and comments.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(err, "delete group")
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "group not found")
	}
	return nil
}

// ListFilter narrows a group listing.
type ListFilter struct {
	Type     string              // visibility tier, "" for all
	Tag      string              // tag match, "" for none
	MemberID *primitive.ObjectID // only groups this user belongs to
	Limit    int64
	Offset   int64
}

// List returns groups matching f, newest first. Secret groups are only
// returned for callers whose membership filter includes them; the feature
// layer passes viewerID so hidden groups never leak into listings.
func (s *Store) List(ctx context.Context, f ListFilter, viewerID primitive.ObjectID) ([]models.Group, error) {
	clauses := []bson.M{
		// Secret groups are invisible in listings unless the viewer is a member.
		{"$or": []bson.M{
			{"type": bson.M{"$ne": models.GroupSecret}},
			{"members.user_id": viewerID},
		}},
	}
	if f.Type != "" {
		clauses = append(clauses, bson.M{"type": f.Type})
	}
	if f.Tag != "" {
		clauses = append(clauses, bson.M{"tags": f.Tag})
	}
	if f.MemberID != nil {
		clauses = append(clauses, bson.M{"members.user_id": *f.MemberID})
	}

	filter := bson.M{"$and": clauses}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(f.Offset).
		SetLimit(f.Limit)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(err, "list groups")
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, apperr.Wrap(err, "decode groups")
	}
	return groups, nil
}
