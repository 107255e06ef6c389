// internal/app/features/groups/membershipaction.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/circlehub/internal/app/store/audit"
	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/sanitize"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/membership"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleMembershipAction applies the caller's own membership transitions:
// join, leave, or cancel_request. Unban is deliberately absent; bans are
// terminal and an unban request is rejected as an invalid action.
func (h *Handler) HandleMembershipAction(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	var req membershipActionRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch req.Action {
	case "join":
		h.handleJoin(ctx, w, user.ID, groupID, sanitize.Text(req.Message))
	case "leave":
		h.handleLeave(ctx, w, user.ID, groupID)
	case "cancel_request":
		h.handleCancelRequest(ctx, w, user.ID, groupID)
	default:
		httpx.WriteError(w, h.Log, apperr.Newf(apperr.InvalidArgument, "unknown membership action %q", req.Action))
	}
}

func (h *Handler) handleJoin(ctx context.Context, w http.ResponseWriter, userID, groupID primitive.ObjectID, message string) {
	var result membership.JoinResult
	g, err := h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		var err error
		result, err = membership.Join(g, userID, message, time.Now().UTC())
		return err
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	if result.Pending {
		h.Audit.MembershipEvent(ctx, audit.EventRequestFiled, userID, userID, groupID, nil)
		httpx.WriteResult(w, map[string]string{"member_status": statusPending}, "membership request filed")
		return
	}
	h.Audit.MembershipEvent(ctx, audit.EventMemberJoined, userID, userID, groupID, nil)
	httpx.WriteResult(w, map[string]string{"member_status": memberStatus(&g, userID)}, "joined group")
}

func (h *Handler) handleLeave(ctx context.Context, w http.ResponseWriter, userID, groupID primitive.ObjectID) {
	_, err := h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		return membership.Leave(g, userID, time.Now().UTC())
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	h.Audit.MembershipEvent(ctx, audit.EventMemberLeft, userID, userID, groupID, nil)
	httpx.WriteResult(w, map[string]string{"member_status": statusNone}, "left group")
}

func (h *Handler) handleCancelRequest(ctx context.Context, w http.ResponseWriter, userID, groupID primitive.ObjectID) {
	_, err := h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		return membership.CancelRequest(g, userID)
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	h.Audit.MembershipEvent(ctx, audit.EventRequestCanceled, userID, userID, groupID, nil)
	httpx.WriteResult(w, map[string]string{"member_status": statusNone}, "membership request canceled")
}
