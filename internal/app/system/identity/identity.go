// internal/app/system/identity/identity.go

// Package identity reads user display fields from the identity store's
// users collection. The core treats that collection as read-only foreign
// data: it never writes profile fields, only decorates responses.
package identity

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Profile is the subset of user fields responses carry.
type Profile struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	AvatarURL   string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
}

// Directory looks up display profiles for a set of user IDs. Missing users
// are simply absent from the result, not an error.
type Directory interface {
	Lookup(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Profile, error)
}

// MongoDirectory reads profiles from the shared users collection.
type MongoDirectory struct {
	c *mongo.Collection
}

// NewMongoDirectory returns a Directory over db's users collection.
func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{c: db.Collection("users")}
}

// Lookup fetches profiles for ids in one query.
func (d *MongoDirectory) Lookup(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]Profile, error) {
	out := make(map[primitive.ObjectID]Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := d.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cur.Err()
}
