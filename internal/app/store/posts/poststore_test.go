package poststore_test

import (
	"testing"
	"time"

	poststore "github.com/dalemusser/circlehub/internal/app/store/posts"
	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/domain/engagement"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"github.com/dalemusser/circlehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := poststore.New(db)

	groupID := primitive.NewObjectID()
	p, err := store.Create(ctx, models.GroupPost{
		GroupID:  groupID,
		AuthorID: primitive.NewObjectID(),
		Content:  "hello",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !p.IsActive || p.Version != 1 {
		t.Errorf("new post: active=%v version=%d", p.IsActive, p.Version)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("missing post: got %v, want NotFound", err)
	}
}

func TestMutate_RecomputesStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := poststore.New(db)
	f := testutil.NewFixtures(t, db)

	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	p := f.CreatePost(ctx, groupID, primitive.NewObjectID(), "post")

	updated, err := store.Mutate(ctx, p.ID, func(p *models.GroupPost) error {
		if err := engagement.React(p, userID, models.ReactionLove, time.Now().UTC()); err != nil {
			return err
		}
		p.Stats = engagement.Recompute(p, 2)
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if updated.Version != p.Version+1 {
		t.Errorf("version: got %d, want %d", updated.Version, p.Version+1)
	}
	if updated.Stats.EngagementScore != 7 {
		t.Errorf("score: got %d, want 7", updated.Stats.EngagementScore)
	}
}

func TestListByGroup_PinnedFirstActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := poststore.New(db)
	f := testutil.NewFixtures(t, db)

	groupID := primitive.NewObjectID()
	author := primitive.NewObjectID()

	f.CreatePost(ctx, groupID, author, "older")
	pinned := f.CreatePost(ctx, groupID, author, "pinned")
	hidden := f.CreatePost(ctx, groupID, author, "hidden")

	if _, err := store.Mutate(ctx, pinned.ID, func(p *models.GroupPost) error {
		p.IsPinned = true
		return nil
	}); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if _, err := store.Mutate(ctx, hidden.ID, func(p *models.GroupPost) error {
		p.IsActive = false
		return nil
	}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	rows, err := store.ListByGroup(ctx, groupID, 10, 0)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].ID != pinned.ID {
		t.Error("pinned post not listed first")
	}
	for _, p := range rows {
		if !p.IsActive {
			t.Error("inactive post leaked into listing")
		}
	}
}

func TestDeactivateByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := poststore.New(db)
	f := testutil.NewFixtures(t, db)

	groupID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	author := primitive.NewObjectID()
	f.CreatePost(ctx, groupID, author, "one")
	f.CreatePost(ctx, groupID, author, "two")
	kept := f.CreatePost(ctx, other, author, "elsewhere")

	n, err := store.DeactivateByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("DeactivateByGroup: %v", err)
	}
	if n != 2 {
		t.Errorf("deactivated: got %d, want 2", n)
	}

	count, err := store.CountActiveByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("CountActiveByGroup: %v", err)
	}
	if count != 0 {
		t.Errorf("active posts after cascade: got %d, want 0", count)
	}

	p, err := store.GetByID(ctx, kept.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !p.IsActive {
		t.Error("post in another group was deactivated")
	}
}
