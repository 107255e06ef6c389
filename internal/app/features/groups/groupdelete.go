// internal/app/features/groups/groupdelete.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDeleteGroup deletes a group. Admin only. The group's posts and
// comments are soft-deleted first, then the group document is removed, so
// an interrupted cascade leaves content hidden rather than orphaned live.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.loadVisibleGroup(ctx, groupID, user.ID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if err := perms.Require(&g, user.ID, perms.ActionAdmin); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	if _, err := h.Comments.DeactivateByGroup(ctx, groupID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if _, err := h.Posts.DeactivateByGroup(ctx, groupID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if err := h.Groups.Delete(ctx, groupID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.GroupDeleted(ctx, user.ID, groupID, g.Name)
	h.Log.Info("group deleted",
		zap.String("group_id", groupID.Hex()),
		zap.String("actor_id", user.ID.Hex()),
	)
	httpx.WriteResult(w, map[string]string{"id": groupID.Hex()}, "group deleted")
}
