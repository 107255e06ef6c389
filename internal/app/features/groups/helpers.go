// internal/app/features/groups/helpers.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/auth"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/identity"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/domain/engagement"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// requestUser pulls the authenticated user set by the auth middleware.
// Routes are mounted behind RequireUser, so a miss means a wiring bug.
func (h *Handler) requestUser(w http.ResponseWriter, r *http.Request) (auth.User, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}
	return u, ok
}

// urlObjectID parses a chi URL parameter as an ObjectID.
func urlObjectID(r *http.Request, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		return primitive.NilObjectID, apperr.Newf(apperr.InvalidArgument, "bad %s", param)
	}
	return id, nil
}

// loadVisibleGroup loads a group and applies the view gate for the caller.
// Secret groups answer non-members with NotFound, never revealing existence.
func (h *Handler) loadVisibleGroup(ctx context.Context, groupID, userID primitive.ObjectID) (models.Group, error) {
	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if err := perms.Require(&g, userID, perms.ActionView); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// memberStatus derives the viewer-facing membership state.
func memberStatus(g *models.Group, userID primitive.ObjectID) string {
	if m := g.Member(userID); m != nil {
		switch m.Role {
		case models.RoleAdmin:
			return statusAdmin
		case models.RoleModerator:
			return statusModerator
		default:
			return statusMember
		}
	}
	if g.IsBanned(userID) {
		return statusBanned
	}
	if g.PendingRequest(userID) != nil {
		return statusPending
	}
	return statusNone
}

// lookupProfiles decorates member entries with identity fields. Lookup
// failures degrade the response instead of failing the request.
func (h *Handler) lookupProfiles(ctx context.Context, ids []primitive.ObjectID) map[primitive.ObjectID]identity.Profile {
	profiles, err := h.Directory.Lookup(ctx, ids)
	if err != nil {
		h.Log.Warn("profile lookup failed", zap.Error(err))
		return map[primitive.ObjectID]identity.Profile{}
	}
	return profiles
}

// recomputePostStats replaces a post's statistics wholesale from the
// current active comment count and reaction list. Called after every
// comment or reaction mutation.
func (h *Handler) recomputePostStats(ctx context.Context, postID primitive.ObjectID) (models.GroupPost, error) {
	n, err := h.Comments.CountActiveByPost(ctx, postID)
	if err != nil {
		return models.GroupPost{}, err
	}
	return h.Posts.Mutate(ctx, postID, func(p *models.GroupPost) error {
		p.Stats = engagement.Recompute(p, int(n))
		return nil
	})
}

// refreshGroupActivity recounts the group's active posts and bumps its
// activity timestamp. Post-count drift self-heals on the next refresh.
func (h *Handler) refreshGroupActivity(ctx context.Context, groupID primitive.ObjectID) {
	n, err := h.Posts.CountActiveByGroup(ctx, groupID)
	if err != nil {
		h.Log.Warn("post recount failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		return
	}
	if _, err := h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		g.Stats.PostCount = int(n)
		g.Stats.LastActivity = time.Now().UTC()
		return nil
	}); err != nil {
		h.Log.Warn("group activity refresh failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
	}
}

// loadActivePost loads a post, requires it to belong to groupID and still
// be active. Soft-deleted content answers NotFound.
func (h *Handler) loadActivePost(ctx context.Context, groupID, postID primitive.ObjectID) (models.GroupPost, error) {
	p, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		return models.GroupPost{}, err
	}
	if p.GroupID != groupID || !p.IsActive {
		return models.GroupPost{}, apperr.New(apperr.NotFound, "post not found")
	}
	return p, nil
}

// canEditContent reports whether the actor may modify content authored by
// authorID: authors edit their own, moderators and admins edit anything.
func canEditContent(g *models.Group, actorID, authorID primitive.ObjectID) bool {
	return actorID == authorID || g.IsModerator(actorID)
}
