// internal/app/features/groups/posts.go
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
)

const maxPostContentLen = 10000

// HandleListPosts lists a group's active posts, pinned first, newest first.
func (h *Handler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
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

	page := paging.Parse(r)
	rows, err := h.Posts.ListByGroup(ctx, groupID, page.LimitPlusOne(), int64(page.Offset))
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	env := paging.Trim(&rows, page)

	items := make([]postView, 0, len(rows))
	for i := range rows {
		items = append(items, newPostView(&rows[i], user.ID))
	}
	httpx.WriteJSON(w, http.StatusOK, listEnvelope{Items: items, Paging: env})
}

// HandleCreatePost creates a post in a group. The posting gate depends on
// the group's posting permission mode.
func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	var req createPostRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	content := sanitize.Text(req.Content)
	if content == "" && len(req.Media) == 0 {
		httpx.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "post content or media is required"))
		return
	}
	if len(content) > maxPostContentLen {
		httpx.WriteError(w, h.Log, apperr.Newf(apperr.InvalidArgument, "post content exceeds %d characters", maxPostContentLen))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.loadVisibleGroup(ctx, groupID, user.ID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	if err := perms.Require(&g, user.ID, perms.ActionPost); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	created, err := h.Posts.Create(ctx, models.GroupPost{
		GroupID:  groupID,
		AuthorID: user.ID,
		Content:  content,
		Media:    req.Media,
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.refreshGroupActivity(ctx, groupID)
	httpx.WriteCreated(w, newPostView(&created, user.ID), "post created")
}

// HandleViewPost returns a single active post.
func (h *Handler) HandleViewPost(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.loadVisibleGroup(ctx, groupID, user.ID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	p, err := h.loadActivePost(ctx, groupID, postID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newPostView(&p, user.ID))
}

// HandleEditPost updates a post's content. Authors edit their own posts;
// moderators and admins edit anyone's.
func (h *Handler) HandleEditPost(w http.ResponseWriter, r *http.Request) {
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

	var req editPostRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	content := sanitize.Text(req.Content)
	if content == "" {
		httpx.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "post content is required"))
		return
	}
	if len(content) > maxPostContentLen {
		httpx.WriteError(w, h.Log, apperr.Newf(apperr.InvalidArgument, "post content exceeds %d characters", maxPostContentLen))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.loadVisibleGroup(ctx, groupID, user.ID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	p, err := h.Posts.Mutate(ctx, postID, func(p *models.GroupPost) error {
		if p.GroupID != groupID || !p.IsActive {
			return apperr.New(apperr.NotFound, "post not found")
		}
		if !canEditContent(&g, user.ID, p.AuthorID) {
			return apperr.New(apperr.Forbidden, "cannot edit another member's post")
		}
		p.Content = content
		return nil
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	httpx.WriteResult(w, newPostView(&p, user.ID), "post updated")
}

// HandleDeletePost soft-deletes a post and its comments, then refreshes
// the group's post count.
func (h *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.loadVisibleGroup(ctx, groupID, user.ID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	_, err = h.Posts.Mutate(ctx, postID, func(p *models.GroupPost) error {
		if p.GroupID != groupID || !p.IsActive {
			return apperr.New(apperr.NotFound, "post not found")
		}
		if !canEditContent(&g, user.ID, p.AuthorID) {
			return apperr.New(apperr.Forbidden, "cannot delete another member's post")
		}
		p.IsActive = false
		return nil
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.refreshGroupActivity(ctx, groupID)
	httpx.WriteResult(w, map[string]string{"id": postID.Hex()}, "post deleted")
}

// HandlePinPost pins or unpins a post. Moderators and admins only.
func (h *Handler) HandlePinPost(w http.ResponseWriter, r *http.Request) {
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

	var req pinPostRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	p, err := h.Posts.Mutate(ctx, postID, func(p *models.GroupPost) error {
		if p.GroupID != groupID || !p.IsActive {
			return apperr.New(apperr.NotFound, "post not found")
		}
		p.IsPinned = req.Pinned
		return nil
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	msg := "post pinned"
	if !req.Pinned {
		msg = "post unpinned"
	}
	httpx.WriteResult(w, newPostView(&p, user.ID), msg)
}

func newPostView(p *models.GroupPost, viewerID primitive.ObjectID) postView {
	v := postView{GroupPost: *p}
	if re := p.ReactionBy(viewerID); re != nil {
		v.ViewerReaction = re.Type
	}
	return v
}
