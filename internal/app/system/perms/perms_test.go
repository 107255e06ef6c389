package perms_test

import (
	"testing"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"github.com/dalemusser/circlehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEvaluate_ViewByTier(t *testing.T) {
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	cases := []struct {
		name      string
		groupType string
		userID    primitive.ObjectID
		allowed   bool
		denyKind  apperr.Kind
	}{
		{"public group, non-member", models.GroupPublic, stranger, true, 0},
		{"private group, member", models.GroupPrivate, member, true, 0},
		{"private group, non-member", models.GroupPrivate, stranger, false, apperr.Forbidden},
		{"secret group, member", models.GroupSecret, member, true, 0},
		{"secret group, non-member", models.GroupSecret, stranger, false, apperr.NotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := testutil.NewGroup("hiking", admin)
			g.Type = tc.groupType
			testutil.AddMember(&g, member, models.RoleMember)

			d := perms.Evaluate(&g, tc.userID, perms.ActionView)
			if d.Allowed != tc.allowed {
				t.Fatalf("allowed: got %v, want %v", d.Allowed, tc.allowed)
			}
			if !tc.allowed && d.Deny.Kind != tc.denyKind {
				t.Errorf("deny kind: got %v, want %v", d.Deny.Kind, tc.denyKind)
			}
		})
	}
}

func TestEvaluate_SecretGroupHidesAllActions(t *testing.T) {
	admin := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	g := testutil.NewGroup("invite only", admin)
	g.Type = models.GroupSecret

	for _, action := range []perms.Action{perms.ActionView, perms.ActionPost, perms.ActionModerate, perms.ActionAdmin} {
		d := perms.Evaluate(&g, stranger, action)
		if d.Allowed {
			t.Fatalf("action %v: secret group allowed a stranger", action)
		}
		if d.Deny.Kind != apperr.NotFound {
			t.Errorf("action %v: deny kind got %v, want NotFound", action, d.Deny.Kind)
		}
		if d.Deny.Message != "group not found" {
			t.Errorf("action %v: deny message %q leaks group existence", action, d.Deny.Message)
		}
	}
}

func TestEvaluate_PostByPermissionMode(t *testing.T) {
	admin := primitive.NewObjectID()
	moderator := primitive.NewObjectID()
	approved := primitive.NewObjectID()
	unapproved := primitive.NewObjectID()

	build := func(mode string) models.Group {
		g := testutil.NewGroup("book club", admin)
		g.PostingPermission = mode
		testutil.AddMember(&g, moderator, models.RoleModerator)
		testutil.AddMember(&g, approved, models.RoleMember)
		testutil.AddMember(&g, unapproved, models.RoleMember)
		g.Members[len(g.Members)-1].Approved = false
		return g
	}

	cases := []struct {
		name    string
		mode    string
		userID  primitive.ObjectID
		allowed bool
	}{
		{"admins_only blocks moderator", models.PostAdminsOnly, moderator, false},
		{"admins_only allows admin", models.PostAdminsOnly, admin, true},
		{"approved_members allows approved", models.PostApprovedMembers, approved, true},
		{"approved_members blocks unapproved", models.PostApprovedMembers, unapproved, false},
		{"approved_members allows moderator", models.PostApprovedMembers, moderator, true},
		{"anyone allows member", models.PostAnyone, approved, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := build(tc.mode)
			d := perms.Evaluate(&g, tc.userID, perms.ActionPost)
			if d.Allowed != tc.allowed {
				t.Errorf("allowed: got %v, want %v", d.Allowed, tc.allowed)
			}
		})
	}
}

func TestEvaluate_ModerateAndAdmin(t *testing.T) {
	admin := primitive.NewObjectID()
	moderator := primitive.NewObjectID()
	member := primitive.NewObjectID()

	g := testutil.NewGroup("gardeners", admin)
	testutil.AddMember(&g, moderator, models.RoleModerator)
	testutil.AddMember(&g, member, models.RoleMember)

	if !perms.Evaluate(&g, moderator, perms.ActionModerate).Allowed {
		t.Error("moderator denied moderate")
	}
	if !perms.Evaluate(&g, admin, perms.ActionModerate).Allowed {
		t.Error("admin denied moderate")
	}
	if perms.Evaluate(&g, member, perms.ActionModerate).Allowed {
		t.Error("member allowed moderate")
	}
	if perms.Evaluate(&g, moderator, perms.ActionAdmin).Allowed {
		t.Error("moderator allowed admin")
	}
	if err := perms.Require(&g, member, perms.ActionAdmin); !apperr.IsKind(err, apperr.Forbidden) {
		t.Errorf("Require admin as member: got %v, want Forbidden", err)
	}
}

func TestEvaluate_PrivateGroupNonViewNeedsMembership(t *testing.T) {
	admin := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	g := testutil.NewGroup("neighbors", admin)
	g.Type = models.GroupPrivate

	d := perms.Evaluate(&g, stranger, perms.ActionPost)
	if d.Allowed {
		t.Fatal("stranger allowed to post in private group")
	}
	if d.Deny.Kind != apperr.Forbidden {
		t.Errorf("deny kind: got %v, want Forbidden", d.Deny.Kind)
	}
}
