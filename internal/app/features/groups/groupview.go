// internal/app/features/groups/groupview.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleViewGroup returns one group as seen by the caller. Members see the
// roster; moderators and admins additionally see pending requests, bans and
// the open report count.
func (h *Handler) HandleViewGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.loadVisibleGroup(ctx, groupID, user.ID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	view := groupView{
		groupSummary:      summarize(&g, memberStatus(&g, user.ID)),
		JoinApproval:      g.JoinApproval,
		PostingPermission: g.PostingPermission,
		CreatorID:         g.CreatorID,
		Stats:             g.Stats,
	}

	if g.IsMember(user.ID) {
		ids := make([]primitive.ObjectID, 0, len(g.Members))
		for i := range g.Members {
			ids = append(ids, g.Members[i].UserID)
		}
		view.Members = memberViews(g.Members, h.lookupProfiles(ctx, ids))
	}
	if g.IsModerator(user.ID) {
		view.PendingRequests = g.MembershipRequests
		view.BannedUsers = g.BannedUsers
		view.OpenReports = countOpenReports(&g)
	}

	httpx.WriteJSON(w, http.StatusOK, view)
}

func countOpenReports(g *models.Group) int {
	n := 0
	for i := range g.Reports {
		if g.Reports[i].Status == models.ReportPending {
			n++
		}
	}
	return n
}
