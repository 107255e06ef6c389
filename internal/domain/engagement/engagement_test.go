package engagement_test

import (
	"testing"
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/domain/engagement"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecompute(t *testing.T) {
	cases := []struct {
		name      string
		comments  int
		reactions int
		wantScore int
	}{
		{"empty post", 0, 0, 0},
		{"reactions only", 0, 4, 4},
		{"comments only", 2, 0, 6},
		{"mixed", 3, 5, 14},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := models.GroupPost{}
			for i := 0; i < tc.reactions; i++ {
				p.Reactions = append(p.Reactions, models.Reaction{UserID: primitive.NewObjectID(), Type: models.ReactionLike})
			}
			s := engagement.Recompute(&p, tc.comments)
			if s.CommentCount != tc.comments {
				t.Errorf("comment count: got %d, want %d", s.CommentCount, tc.comments)
			}
			if s.ReactionCount != tc.reactions {
				t.Errorf("reaction count: got %d, want %d", s.ReactionCount, tc.reactions)
			}
			if s.EngagementScore != tc.wantScore {
				t.Errorf("score: got %d, want %d", s.EngagementScore, tc.wantScore)
			}
		})
	}
}

func TestReact_ToggleAndReplace(t *testing.T) {
	user := primitive.NewObjectID()
	now := time.Now().UTC()
	p := models.GroupPost{}

	// First reaction adds.
	if err := engagement.React(&p, user, models.ReactionLike, now); err != nil {
		t.Fatalf("React: %v", err)
	}
	if re := p.ReactionBy(user); re == nil || re.Type != models.ReactionLike {
		t.Fatal("reaction not added")
	}

	// A different type replaces in place, keeping one reaction per user.
	later := now.Add(time.Minute)
	if err := engagement.React(&p, user, models.ReactionLove, later); err != nil {
		t.Fatalf("React replace: %v", err)
	}
	if len(p.Reactions) != 1 {
		t.Fatalf("reactions: got %d, want 1", len(p.Reactions))
	}
	re := p.ReactionBy(user)
	if re.Type != models.ReactionLove {
		t.Errorf("type: got %q, want love", re.Type)
	}
	if !re.CreatedAt.Equal(later) {
		t.Error("replacement did not refresh timestamp")
	}

	// The same type again toggles off.
	if err := engagement.React(&p, user, models.ReactionLove, later); err != nil {
		t.Fatalf("React toggle: %v", err)
	}
	if len(p.Reactions) != 0 {
		t.Errorf("reactions after toggle: got %d, want 0", len(p.Reactions))
	}
}

func TestReact_MultipleUsers(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now().UTC()
	p := models.GroupPost{}

	if err := engagement.React(&p, a, models.ReactionWow, now); err != nil {
		t.Fatalf("React a: %v", err)
	}
	if err := engagement.React(&p, b, models.ReactionWow, now); err != nil {
		t.Fatalf("React b: %v", err)
	}
	if len(p.Reactions) != 2 {
		t.Fatalf("reactions: got %d, want 2", len(p.Reactions))
	}
	// Toggling one user's reaction leaves the other's alone.
	if err := engagement.React(&p, a, models.ReactionWow, now); err != nil {
		t.Fatalf("React toggle: %v", err)
	}
	if len(p.Reactions) != 1 || p.Reactions[0].UserID != b {
		t.Error("toggle removed the wrong reaction")
	}
}

func TestReact_UnknownType(t *testing.T) {
	p := models.GroupPost{}
	err := engagement.React(&p, primitive.NewObjectID(), "meh", time.Now().UTC())
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Errorf("unknown type: got %v, want InvalidArgument", err)
	}
	if len(p.Reactions) != 0 {
		t.Error("invalid reaction was recorded")
	}
}
