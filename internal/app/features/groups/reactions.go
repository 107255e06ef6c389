// internal/app/features/groups/reactions.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/engagement"
	"github.com/dalemusser/circlehub/internal/domain/models"
)

// HandleReact applies the caller's reaction to a post: first reaction adds,
// same type toggles off, a different type replaces. The reaction change and
// the statistics recompute land in one conditional write on the post.
func (h *Handler) HandleReact(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	postID, err := urlObjectID(r, "postID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	var req reactRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.loadVisibleGroup(ctx, groupID, user.ID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	activeComments, err := h.Comments.CountActiveByPost(ctx, postID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	p, err := h.Posts.Mutate(ctx, postID, func(p *models.GroupPost) error {
		if p.GroupID != groupID || !p.IsActive {
			return apperr.New(apperr.NotFound, "post not found")
		}
		if err := engagement.React(p, user.ID, req.Type, time.Now().UTC()); err != nil {
			return err
		}
		p.Stats = engagement.Recompute(p, int(activeComments))
		return nil
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	httpx.WriteResult(w, newPostView(&p, user.ID), "reaction applied")
}
