// internal/app/features/groups/comments.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/paging"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/app/system/sanitize"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxCommentContentLen = 2000

// HandleListComments lists a post's active comments, oldest first.
func (h *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.loadVisibleGroup(ctx, groupID, user.ID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if _, err := h.loadActivePost(ctx, groupID, postID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	page := paging.Parse(r)
	rows, err := h.Comments.ListByPost(ctx, postID, page.LimitPlusOne(), int64(page.Offset))
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	env := paging.Trim(&rows, page)
	httpx.WriteJSON(w, http.StatusOK, listEnvelope{Items: rows, Paging: env})
}

// HandleCreateComment adds a comment to a post, optionally threaded under
// a parent, and recomputes the post's engagement statistics.
func (h *Handler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
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

	var req createCommentRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	content := sanitize.Text(req.Content)
	if content == "" {
		httpx.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "comment content is required"))
		return
	}
	if len(content) > maxCommentContentLen {
		httpx.WriteError(w, h.Log, apperr.Newf(apperr.InvalidArgument, "comment content exceeds %d characters", maxCommentContentLen))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.loadVisibleGroup(ctx, groupID, user.ID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	// Commenting uses the same gate as posting.
	if err := perms.Require(&g, user.ID, perms.ActionPost); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if _, err := h.loadActivePost(ctx, groupID, postID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	c := models.GroupComment{
		PostID:   postID,
		GroupID:  groupID,
		AuthorID: user.ID,
		Content:  content,
	}
	if req.ParentCommentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentCommentID)
		if err != nil {
			httpx.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "bad parent_comment_id"))
			return
		}
		parent, err := h.Comments.GetByID(ctx, parentID)
		if err != nil {
			httpx.WriteError(w, h.Log, err)
			return
		}
		if parent.PostID != postID || !parent.IsActive {
			httpx.WriteError(w, h.Log, apperr.New(apperr.NotFound, "parent comment not found"))
			return
		}
		c.ParentCommentID = &parentID
	}

	created, err := h.Comments.Create(ctx, c)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if _, err := h.recomputePostStats(ctx, postID); err != nil {
		h.Log.Warn("post stats recompute failed", zap.Error(err), zap.String("post_id", postID.Hex()))
	}
	httpx.WriteCreated(w, created, "comment created")
}

// HandleEditComment updates a comment's content. Authors only; moderators
// remove comments through reports or deletion rather than rewriting them.
func (h *Handler) HandleEditComment(w http.ResponseWriter, r *http.Request) {
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
	commentID, err := urlObjectID(r, "commentID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	var req editCommentRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	content := sanitize.Text(req.Content)
	if content == "" {
		httpx.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "comment content is required"))
		return
	}
	if len(content) > maxCommentContentLen {
		httpx.WriteError(w, h.Log, apperr.Newf(apperr.InvalidArgument, "comment content exceeds %d characters", maxCommentContentLen))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.loadVisibleGroup(ctx, groupID, user.ID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	c, err := h.Comments.GetByID(ctx, commentID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if c.PostID != postID || !c.IsActive {
		httpx.WriteError(w, h.Log, apperr.New(apperr.NotFound, "comment not found"))
		return
	}
	if c.AuthorID != user.ID {
		httpx.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "cannot edit another member's comment"))
		return
	}

	if err := h.Comments.UpdateContent(ctx, commentID, content); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	httpx.WriteResult(w, map[string]string{"id": commentID.Hex()}, "comment updated")
}

// HandleDeleteComment soft-deletes a comment and recomputes the post's
// engagement statistics.
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
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
	commentID, err := urlObjectID(r, "commentID")
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
	c, err := h.Comments.GetByID(ctx, commentID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if c.PostID != postID || !c.IsActive {
		httpx.WriteError(w, h.Log, apperr.New(apperr.NotFound, "comment not found"))
		return
	}
	if !canEditContent(&g, user.ID, c.AuthorID) {
		httpx.WriteError(w, h.Log, apperr.New(apperr.Forbidden, "cannot delete another member's comment"))
		return
	}

	if err := h.Comments.Deactivate(ctx, commentID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if _, err := h.recomputePostStats(ctx, postID); err != nil {
		h.Log.Warn("post stats recompute failed", zap.Error(err), zap.String("post_id", postID.Hex()))
	}
	httpx.WriteResult(w, map[string]string{"id": commentID.Hex()}, "comment deleted")
}
