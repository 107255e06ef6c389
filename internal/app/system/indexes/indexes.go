// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll is called at startup. Each ensure* function is idempotent.
// Errors are aggregated so any problem is visible and startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensurePosts(ctx, db); err != nil {
		problems = append(problems, "group_posts: "+err.Error())
	}
	if err := ensureComments(ctx, db); err != nil {
		problems = append(problems, "group_comments: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("groups")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Group names are unique case-insensitively; the store maps the
		// duplicate-key error to Conflict.
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("uniq_groups_nameci").SetUnique(true),
		},
		// List pages: filter by type, prefix on name_ci, stable tiebreak
		{
			Keys: bson.D{
				{Key: "type", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_groups_type_nameci__id"),
		},
		// Tag filter (multikey)
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_groups_tags"),
		},
		// "My groups" filter (multikey over embedded member entries)
		{
			Keys:    bson.D{{Key: "members.user_id", Value: 1}},
			Options: options.Index().SetName("idx_groups_member_user"),
		},
	})
	return err
}

func ensurePosts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_posts")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Feed pages: active posts per group, pinned first, newest first
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "is_pinned", Value: -1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_posts_group_active_pinned_created"),
		},
		// Per-author lookups and cascade cleanup
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_author_created"),
		},
	})
	return err
}

func ensureComments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_comments")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Thread pages and active-comment counts per post
		{
			Keys: bson.D{
				{Key: "post_id", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_comments_post_active_created"),
		},
		// Cascade cleanup on group delete
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}},
			Options: options.Index().SetName("idx_comments_group"),
		},
	})
	return err
}
