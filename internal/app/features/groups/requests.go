// internal/app/features/groups/requests.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/circlehub/internal/app/store/audit"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/notify"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/membership"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleListRequests lists pending membership requests. Moderators and
// admins only.
func (h *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
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
	if err := perms.Require(&g, user.ID, perms.ActionModerate); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(g.MembershipRequests))
	for i := range g.MembershipRequests {
		ids = append(ids, g.MembershipRequests[i].UserID)
	}
	profiles := h.lookupProfiles(ctx, ids)

	items := make([]requestView, 0, len(g.MembershipRequests))
	for i := range g.MembershipRequests {
		req := &g.MembershipRequests[i]
		v := requestView{
			UserID:      req.UserID,
			Message:     req.Message,
			RequestedAt: req.RequestedAt,
		}
		if p, ok := profiles[req.UserID]; ok {
			v.DisplayName = p.DisplayName
		}
		items = append(items, v)
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// HandleApproveRequest promotes a pending request to a membership.
func (h *Handler) HandleApproveRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	targetID, err := urlObjectID(r, "userID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err = h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		return membership.ApproveRequest(g, user.ID, targetID, time.Now().UTC())
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.MembershipEvent(ctx, audit.EventRequestApproved, user.ID, targetID, groupID, nil)
	h.Notify.Dispatch(ctx, notify.Event{
		Type:    notify.EventRequestApproved,
		UserID:  targetID,
		GroupID: groupID,
		Message: "your membership request was approved",
	})
	httpx.WriteResult(w, map[string]string{"user_id": targetID.Hex()}, "membership request approved")
}

// HandleRejectRequest removes a pending request without creating a membership.
func (h *Handler) HandleRejectRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	targetID, err := urlObjectID(r, "userID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err = h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		return membership.RejectRequest(g, user.ID, targetID)
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.MembershipEvent(ctx, audit.EventRequestRejected, user.ID, targetID, groupID, nil)
	h.Notify.Dispatch(ctx, notify.Event{
		Type:    notify.EventRequestRejected,
		UserID:  targetID,
		GroupID: groupID,
		Message: "your membership request was declined",
	})
	httpx.WriteResult(w, map[string]string{"user_id": targetID.Hex()}, "membership request rejected")
}
