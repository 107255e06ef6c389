// internal/app/features/groups/groupcreate.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/sanitize"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/models"
)

// maxGroupNameLen bounds group names; descriptions get ten times that.
const (
	maxGroupNameLen        = 100
	maxGroupDescriptionLen = 1000
	maxGroupTags           = 10
)

// HandleCreateGroup creates a group with the caller as its first admin.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}

	var req createGroupRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	g, err := groupFromCreate(req)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	g.CreatorID = user.ID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Groups.Create(ctx, g)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.GroupCreated(ctx, user.ID, created.ID, created.Name)
	view := groupView{
		groupSummary:      summarize(&created, statusAdmin),
		JoinApproval:      created.JoinApproval,
		PostingPermission: created.PostingPermission,
		CreatorID:         created.CreatorID,
		Stats:             created.Stats,
	}
	httpx.WriteCreated(w, view, "group created")
}

// groupFromCreate validates the payload and builds the unsaved group.
// Unset enum fields fall back to the most open settings.
func groupFromCreate(req createGroupRequest) (models.Group, error) {
	g := models.Group{
		Name:              sanitize.Text(req.Name),
		Description:       sanitize.Text(req.Description),
		CoverImage:        req.CoverImage,
		Type:              req.Type,
		JoinApproval:      req.JoinApproval,
		PostingPermission: req.PostingPermission,
	}
	if g.Name == "" {
		return models.Group{}, apperr.New(apperr.InvalidArgument, "a group name is required")
	}
	if len(g.Name) > maxGroupNameLen {
		return models.Group{}, apperr.Newf(apperr.InvalidArgument, "group name exceeds %d characters", maxGroupNameLen)
	}
	if len(g.Description) > maxGroupDescriptionLen {
		return models.Group{}, apperr.Newf(apperr.InvalidArgument, "group description exceeds %d characters", maxGroupDescriptionLen)
	}
	if len(req.Tags) > maxGroupTags {
		return models.Group{}, apperr.Newf(apperr.InvalidArgument, "at most %d tags are allowed", maxGroupTags)
	}
	for _, t := range req.Tags {
		if tag := sanitize.Text(t); tag != "" {
			g.Tags = append(g.Tags, tag)
		}
	}

	if g.Type == "" {
		g.Type = models.GroupPublic
	}
	if !models.ValidGroupType(g.Type) {
		return models.Group{}, apperr.Newf(apperr.InvalidArgument, "unknown group type %q", g.Type)
	}
	if g.JoinApproval == "" {
		g.JoinApproval = models.JoinAnyone
	}
	if !models.ValidJoinApproval(g.JoinApproval) {
		return models.Group{}, apperr.Newf(apperr.InvalidArgument, "unknown join approval mode %q", g.JoinApproval)
	}
	if g.PostingPermission == "" {
		g.PostingPermission = models.PostAnyone
	}
	if !models.ValidPostingPermission(g.PostingPermission) {
		return models.Group{}, apperr.Newf(apperr.InvalidArgument, "unknown posting permission %q", g.PostingPermission)
	}
	return g, nil
}
