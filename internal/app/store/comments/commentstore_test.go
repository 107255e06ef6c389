package commentstore_test

import (
	"testing"

	commentstore "github.com/dalemusser/circlehub/internal/app/store/comments"
	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateListCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := commentstore.New(db)
	f := testutil.NewFixtures(t, db)

	groupID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	author := primitive.NewObjectID()

	first := f.CreateComment(ctx, groupID, postID, author, "first")
	f.CreateComment(ctx, groupID, postID, author, "second")
	f.CreateComment(ctx, groupID, primitive.NewObjectID(), author, "other post")

	rows, err := store.ListByPost(ctx, postID, 10, 0)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].ID != first.ID {
		t.Error("comments not listed oldest first")
	}

	n, err := store.CountActiveByPost(ctx, postID)
	if err != nil {
		t.Fatalf("CountActiveByPost: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}
}

func TestDeactivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := commentstore.New(db)
	f := testutil.NewFixtures(t, db)

	groupID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	c := f.CreateComment(ctx, groupID, postID, primitive.NewObjectID(), "bye")

	if err := store.Deactivate(ctx, c.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	// Soft-deleted, still loadable.
	loaded, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.IsActive {
		t.Error("comment still active after Deactivate")
	}

	n, err := store.CountActiveByPost(ctx, postID)
	if err != nil {
		t.Fatalf("CountActiveByPost: %v", err)
	}
	if n != 0 {
		t.Errorf("count: got %d, want 0", n)
	}

	if err := store.Deactivate(ctx, primitive.NewObjectID()); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("missing comment: got %v, want NotFound", err)
	}
}

func TestUpdateContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := commentstore.New(db)
	f := testutil.NewFixtures(t, db)

	c := f.CreateComment(ctx, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), "tpyo")
	if err := store.UpdateContent(ctx, c.ID, "typo"); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	loaded, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Content != "typo" {
		t.Errorf("content: got %q, want %q", loaded.Content, "typo")
	}
}

func TestDeactivateByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := commentstore.New(db)
	f := testutil.NewFixtures(t, db)

	groupID := primitive.NewObjectID()
	postID := primitive.NewObjectID()
	f.CreateComment(ctx, groupID, postID, primitive.NewObjectID(), "a")
	f.CreateComment(ctx, groupID, postID, primitive.NewObjectID(), "b")

	n, err := store.DeactivateByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("DeactivateByGroup: %v", err)
	}
	if n != 2 {
		t.Errorf("deactivated: got %d, want 2", n)
	}
}
