// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/circlehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// NewGroup builds an unsaved public group document with adminID as its
// sole admin member. Callers adjust fields before inserting.
func NewGroup(name string, adminID primitive.ObjectID) models.Group {
	now := time.Now().UTC()
	return models.Group{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),

		CreatorID:         adminID,
		Type:              models.GroupPublic,
		JoinApproval:      models.JoinAnyone,
		PostingPermission: models.PostAnyone,

		Members: []models.GroupMember{{
			UserID:   adminID,
			Role:     models.RoleAdmin,
			JoinedAt: now,
			Approved: true,
		}},
		Stats: models.GroupStats{
			MemberCount:   1,
			ActiveMembers: 1,
			LastActivity:  now,
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddMember appends a membership entry to an unsaved group and keeps the
// member counters in line.
func AddMember(g *models.Group, userID primitive.ObjectID, role string) {
	g.Members = append(g.Members, models.GroupMember{
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
		Approved: true,
	})
	g.Stats.MemberCount = len(g.Members)
	g.Stats.ActiveMembers = len(g.Members)
}

// CreateGroup inserts a public group with adminID as its sole admin.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, adminID primitive.ObjectID) models.Group {
	f.t.Helper()
	g := NewGroup(name, adminID)
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateGroupWith inserts a group after applying mutate to the default
// fixture, for tests that need non-default visibility or members.
func (f *Fixtures) CreateGroupWith(ctx context.Context, name string, adminID primitive.ObjectID, mutate func(*models.Group)) models.Group {
	f.t.Helper()
	g := NewGroup(name, adminID)
	mutate(&g)
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreatePost inserts an active post in the given group.
func (f *Fixtures) CreatePost(ctx context.Context, groupID, authorID primitive.ObjectID, content string) models.GroupPost {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.GroupPost{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		AuthorID:  authorID,
		Content:   content,
		IsActive:  true,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("group_posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return p
}

// CreateComment inserts an active comment on the given post.
func (f *Fixtures) CreateComment(ctx context.Context, groupID, postID, authorID primitive.ObjectID, content string) models.GroupComment {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.GroupComment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		GroupID:   groupID,
		AuthorID:  authorID,
		Content:   content,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("group_comments").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return c
}

// CreateProfile inserts a user profile row for identity decoration.
func (f *Fixtures) CreateProfile(ctx context.Context, id primitive.ObjectID, displayName string) {
	f.t.Helper()
	if _, err := f.db.Collection("users").InsertOne(ctx, map[string]any{
		"_id":          id,
		"display_name": displayName,
	}); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
}
