// internal/domain/engagement/engagement.go

// Package engagement derives a post's statistics from its current comment
// and reaction records. The score is always recomputed wholesale after a
// comment or reaction mutation; nothing in the repo increments counters.
package engagement

import (
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment and reaction weights for the engagement score.
const (
	commentWeight  = 3
	reactionWeight = 1
)

// Recompute derives fresh statistics for p. activeComments is the count of
// currently-active comments on the post; reactions are read from the post
// document itself.
func Recompute(p *models.GroupPost, activeComments int) models.PostStats {
	s := models.PostStats{
		CommentCount:  activeComments,
		ReactionCount: len(p.Reactions),
	}
	s.EngagementScore = commentWeight*s.CommentCount + reactionWeight*s.ReactionCount
	return s
}

// React applies the single-reaction-per-user rule to p:
//   - no existing reaction: the reaction is added
//   - same type again: the reaction is removed (toggle-off)
//   - different type: the reaction is replaced in place, timestamp updated
//
// The caller recomputes statistics afterwards.
func React(p *models.GroupPost, userID primitive.ObjectID, reactionType string, now time.Time) error {
	if !models.ValidReactionType(reactionType) {
		return apperr.Newf(apperr.InvalidArgument, "unknown reaction type %q", reactionType)
	}
	for i := range p.Reactions {
		if p.Reactions[i].UserID != userID {
			continue
		}
		if p.Reactions[i].Type == reactionType {
			p.Reactions = append(p.Reactions[:i], p.Reactions[i+1:]...)
			return nil
		}
		p.Reactions[i].Type = reactionType
		p.Reactions[i].CreatedAt = now
		return nil
	}
	p.Reactions = append(p.Reactions, models.Reaction{
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: now,
	})
	return nil
}
