// internal/app/features/groups/members.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/circlehub/internal/app/store/audit"
	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/notify"
	"github.com/dalemusser/circlehub/internal/app/system/sanitize"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/membership"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleListMembers returns the member roster with identity decoration.
// Members only; the roster is not public even for public groups.
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
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
	if !g.IsMember(user.ID) {
		httpx.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "must be a member to view the roster"))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(g.Members))
	for i := range g.Members {
		ids = append(ids, g.Members[i].UserID)
	}
	items := memberViews(g.Members, h.lookupProfiles(ctx, ids))
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// HandleChangeRole changes a member's role. Admin only. Demoting the last
// admin is rejected so the group always keeps at least one.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
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

	var req changeRoleRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err = h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		return membership.ChangeRole(g, user.ID, targetID, req.Role, time.Now().UTC())
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.MembershipEvent(ctx, audit.EventRoleChanged, user.ID, targetID, groupID,
		map[string]string{"new_role": req.Role})
	httpx.WriteResult(w, map[string]string{"user_id": targetID.Hex(), "role": req.Role}, "role updated")
}

// HandleRemoveMember ejects a member. Moderators can remove regular
// members; removing an admin takes admin permission and never removes
// the last one.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
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
		return membership.Remove(g, user.ID, targetID, time.Now().UTC())
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.MembershipEvent(ctx, audit.EventMemberRemoved, user.ID, targetID, groupID, nil)
	httpx.WriteResult(w, map[string]string{"user_id": targetID.Hex()}, "member removed")
}

// HandleBanMember bans a member or pending requester. Admin only; the ban
// is terminal, there is no unban.
func (h *Handler) HandleBanMember(w http.ResponseWriter, r *http.Request) {
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

	var req banRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	reason := sanitize.Text(req.Reason)
	if reason == "" {
		httpx.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "a ban reason is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err = h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		return membership.Ban(g, user.ID, targetID, reason, time.Now().UTC())
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.MembershipEvent(ctx, audit.EventMemberBanned, user.ID, targetID, groupID,
		map[string]string{"reason": reason})
	h.Notify.Dispatch(ctx, notify.Event{
		Type:    notify.EventMemberBanned,
		UserID:  targetID,
		GroupID: groupID,
		Message: "you have been banned from the group",
		Details: map[string]string{"reason": reason},
	})
	httpx.WriteResult(w, map[string]string{"user_id": targetID.Hex()}, "member banned")
}
