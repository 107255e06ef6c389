// internal/app/features/groups/groupedit.go
package groups

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/app/system/sanitize"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/text"

	"github.com/dalemusser/circlehub/internal/domain/models"
)

// HandleEditGroup updates group settings. Admin only. Only fields present
// in the payload change; the whole update is one conditional write, so a
// concurrent edit either wins cleanly or this one retries.
func (h *Handler) HandleEditGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	var req editGroupRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var changed []string
	g, err := h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		if err := perms.Require(g, user.ID, perms.ActionAdmin); err != nil {
			return err
		}
		changed = changed[:0]

		if req.Name != nil {
			name := sanitize.Text(*req.Name)
			if name == "" {
				return apperr.New(apperr.InvalidArgument, "a group name is required")
			}
			if len(name) > maxGroupNameLen {
				return apperr.Newf(apperr.InvalidArgument, "group name exceeds %d characters", maxGroupNameLen)
			}
			g.Name = name
			g.NameCI = text.Fold(name)
			changed = append(changed, "name")
		}
		if req.Description != nil {
			desc := sanitize.Text(*req.Description)
			if len(desc) > maxGroupDescriptionLen {
				return apperr.Newf(apperr.InvalidArgument, "group description exceeds %d characters", maxGroupDescriptionLen)
			}
			g.Description = desc
			changed = append(changed, "description")
		}
		if req.Tags != nil {
			if len(*req.Tags) > maxGroupTags {
				return apperr.Newf(apperr.InvalidArgument, "at most %d tags are allowed", maxGroupTags)
			}
			g.Tags = nil
			for _, t := range *req.Tags {
				if tag := sanitize.Text(t); tag != "" {
					g.Tags = append(g.Tags, tag)
				}
			}
			changed = append(changed, "tags")
		}
		if req.CoverImage != nil {
			g.CoverImage = *req.CoverImage
			changed = append(changed, "cover_image")
		}
		if req.Type != nil {
			if !models.ValidGroupType(*req.Type) {
				return apperr.Newf(apperr.InvalidArgument, "unknown group type %q", *req.Type)
			}
			g.Type = *req.Type
			changed = append(changed, "type")
		}
		if req.JoinApproval != nil {
			if !models.ValidJoinApproval(*req.JoinApproval) {
				return apperr.Newf(apperr.InvalidArgument, "unknown join approval mode %q", *req.JoinApproval)
			}
			g.JoinApproval = *req.JoinApproval
			changed = append(changed, "join_approval")
		}
		if req.PostingPermission != nil {
			if !models.ValidPostingPermission(*req.PostingPermission) {
				return apperr.Newf(apperr.InvalidArgument, "unknown posting permission %q", *req.PostingPermission)
			}
			g.PostingPermission = *req.PostingPermission
			changed = append(changed, "posting_permission")
		}
		if len(changed) == 0 {
			return apperr.New(apperr.InvalidArgument, "no fields to update")
		}
		return nil
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.GroupUpdated(ctx, user.ID, g.ID, strings.Join(changed, ","))
	view := groupView{
		groupSummary:      summarize(&g, memberStatus(&g, user.ID)),
		JoinApproval:      g.JoinApproval,
		PostingPermission: g.PostingPermission,
		CreatorID:         g.CreatorID,
		Stats:             g.Stats,
	}
	httpx.WriteResult(w, view, "group updated")
}
