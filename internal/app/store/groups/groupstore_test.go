package groupstore_test

import (
	"sync"
	"testing"
	"time"

	groupstore "github.com/dalemusser/circlehub/internal/app/store/groups"
	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/domain/membership"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"github.com/dalemusser/circlehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)

	creator := primitive.NewObjectID()
	g, err := store.Create(ctx, models.Group{
		Name:              "Trail Runners",
		Type:              models.GroupPublic,
		JoinApproval:      models.JoinAnyone,
		PostingPermission: models.PostAnyone,
		CreatorID:         creator,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Version != 1 {
		t.Errorf("version: got %d, want 1", g.Version)
	}
	if !g.IsAdmin(creator) {
		t.Error("creator is not the initial admin")
	}
	if g.Stats.MemberCount != 1 {
		t.Errorf("member count: got %d, want 1", g.Stats.MemberCount)
	}

	loaded, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.NameCI == "" {
		t.Error("name_ci not populated")
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("missing group: got %v, want NotFound", err)
	}
}

func TestMutate_IncrementsVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)
	f := testutil.NewFixtures(t, db)

	admin := primitive.NewObjectID()
	g := f.CreateGroup(ctx, "Bakers", admin)

	updated, err := store.Mutate(ctx, g.ID, func(g *models.Group) error {
		g.Description = "we bake"
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if updated.Version != g.Version+1 {
		t.Errorf("version: got %d, want %d", updated.Version, g.Version+1)
	}
	if updated.Description != "we bake" {
		t.Error("mutation not persisted")
	}
}

func TestMutate_TransitionErrorAborts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)
	f := testutil.NewFixtures(t, db)

	admin := primitive.NewObjectID()
	g := f.CreateGroup(ctx, "Solo", admin)

	// The sole admin cannot leave; the document must not change.
	_, err := store.Mutate(ctx, g.ID, func(g *models.Group) error {
		return membership.Leave(g, admin, time.Now().UTC())
	})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("Mutate: got %v, want Conflict", err)
	}

	reloaded, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Version != g.Version {
		t.Error("failed transition still bumped the version")
	}
	if !reloaded.IsMember(admin) {
		t.Error("failed transition mutated the document")
	}
}

func TestMutate_ConcurrentJoinsAllLand(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)
	f := testutil.NewFixtures(t, db)

	admin := primitive.NewObjectID()
	g := f.CreateGroup(ctx, "Busy", admin)

	const joiners = 8
	users := make([]primitive.ObjectID, joiners)
	for i := range users {
		users[i] = primitive.NewObjectID()
	}

	var wg sync.WaitGroup
	errs := make([]error, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Mutate(ctx, g.ID, func(g *models.Group) error {
				_, err := membership.Join(g, users[i], "", time.Now().UTC())
				return err
			})
		}(i)
	}
	wg.Wait()

	// With bounded retries some transitions may lose; every one must either
	// land whole or surface a Conflict, never vanish silently.
	landed := 0
	for i, err := range errs {
		switch {
		case err == nil:
			landed++
		case apperr.IsKind(err, apperr.Conflict):
		default:
			t.Errorf("joiner %d: unexpected error %v", i, err)
		}
	}

	final, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got := len(final.Members); got != landed+1 {
		t.Errorf("members: got %d, want %d successful joins plus admin", got, landed)
	}
	if final.Stats.MemberCount != len(final.Members) {
		t.Errorf("member count %d out of line with members %d", final.Stats.MemberCount, len(final.Members))
	}
	if final.Version != int64(1+landed) {
		t.Errorf("version: got %d, want %d", final.Version, 1+landed)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)
	f := testutil.NewFixtures(t, db)

	g := f.CreateGroup(ctx, "Ephemeral", primitive.NewObjectID())
	if err := store.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, g.ID); !apperr.IsKind(err, apperr.NotFound) {
		t.Errorf("double delete: got %v, want NotFound", err)
	}
}

func TestList_SecretGroupsHidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)
	f := testutil.NewFixtures(t, db)

	admin := primitive.NewObjectID()
	insider := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	f.CreateGroup(ctx, "Open", admin)
	f.CreateGroupWith(ctx, "Hidden", admin, func(g *models.Group) {
		g.Type = models.GroupSecret
		testutil.AddMember(g, insider, models.RoleMember)
	})

	filter := groupstore.ListFilter{Limit: 10}

	rows, err := store.List(ctx, filter, outsider)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, g := range rows {
		if g.Type == models.GroupSecret {
			t.Errorf("secret group %q leaked to outsider", g.Name)
		}
	}
	if len(rows) != 1 {
		t.Errorf("outsider rows: got %d, want 1", len(rows))
	}

	rows, err = store.List(ctx, filter, insider)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("insider rows: got %d, want 2", len(rows))
	}
}

func TestList_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)
	f := testutil.NewFixtures(t, db)

	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()

	f.CreateGroupWith(ctx, "Tagged", admin, func(g *models.Group) {
		g.Tags = []string{"sports", "outdoors"}
		testutil.AddMember(g, member, models.RoleMember)
	})
	f.CreateGroup(ctx, "Plain", admin)

	rows, err := store.List(ctx, groupstore.ListFilter{Tag: "sports", Limit: 10}, member)
	if err != nil {
		t.Fatalf("List by tag: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Tagged" {
		t.Errorf("tag filter rows: %v", rows)
	}

	rows, err = store.List(ctx, groupstore.ListFilter{MemberID: &member, Limit: 10}, member)
	if err != nil {
		t.Fatalf("List by member: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Tagged" {
		t.Errorf("member filter rows: %v", rows)
	}
}
