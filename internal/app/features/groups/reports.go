// internal/app/features/groups/reports.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/circlehub/internal/app/store/audit"
	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/notify"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/app/system/sanitize"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/moderation"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleListReports lists a group's reports. Moderators and admins only.
// ?status=pending narrows to unresolved reports.
func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
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

	status := r.URL.Query().Get("status")
	if status != "" && status != models.ReportPending && status != models.ReportResolved {
		httpx.WriteError(w, h.Log, apperr.Newf(apperr.InvalidArgument, "unknown report status %q", status))
		return
	}

	items := make([]models.Report, 0, len(g.Reports))
	for i := range g.Reports {
		if status == "" || g.Reports[i].Status == status {
			items = append(items, g.Reports[i])
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// HandleFileReport files a report against a post or comment in the group.
// Any member who can see the group may report; duplicates are allowed.
func (h *Handler) HandleFileReport(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	var req fileReportRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	contentID, err := primitive.ObjectIDFromHex(req.ContentID)
	if err != nil {
		httpx.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "bad content_id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The content must exist, be active, and belong to this group.
	if _, err := h.reportedContent(ctx, groupID, req.ContentType, contentID); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	reportID := uuid.NewString()
	var filed models.Report
	_, err = h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		rep, err := moderation.File(g, user.ID, reportID, req.ContentType, contentID,
			sanitize.Text(req.Reason), sanitize.Text(req.Details), time.Now().UTC())
		if err != nil {
			return err
		}
		filed = *rep
		return nil
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	h.Audit.ReportFiled(ctx, user.ID, groupID, filed.ID, filed.ContentType)
	httpx.WriteCreated(w, filed, "report filed")
}

// HandleResolveReport applies one resolution action to a pending report.
// The report flips to resolved exactly once; repeating the call answers
// Conflict. Content removal and notifications run after the group write.
func (h *Handler) HandleResolveReport(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}
	groupID, err := urlObjectID(r, "groupID")
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	reportID := chi.URLParam(r, "reportID")

	var req resolveReportRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	action, err := moderation.ParseAction(req.Action)
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
	rep := g.FindReport(reportID)
	if rep == nil {
		httpx.WriteError(w, h.Log, apperr.New(apperr.NotFound, "report not found"))
		return
	}

	// Resolve the reported content's author before the group write; warn
	// and ban act on the author, remove_content needs the comment's post.
	content, err := h.reportedContent(ctx, groupID, rep.ContentType, rep.ContentID)
	if err != nil && action != moderation.ActionDismiss {
		httpx.WriteError(w, h.Log, err)
		return
	}

	var outcome moderation.Outcome
	_, err = h.Groups.Mutate(ctx, groupID, func(g *models.Group) error {
		var err error
		outcome, err = moderation.Resolve(g, reportID, user.ID, action, content.authorID,
			sanitize.Text(req.Note), time.Now().UTC())
		return err
	})
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}

	if outcome.RemoveContent {
		h.removeReportedContent(ctx, user.ID, groupID, outcome.Report)
	}
	h.dispatchResolution(ctx, groupID, rep.ReporterID, outcome)
	h.Audit.ReportResolved(ctx, user.ID, groupID, reportID, outcome.Report.Resolution)

	httpx.WriteResult(w, outcome.Report, "report resolved")
}

// reportedContent describes the post or comment a report points at.
type reportedContent struct {
	authorID primitive.ObjectID
	postID   primitive.ObjectID // the comment's post, or the post itself
}

func (h *Handler) reportedContent(ctx context.Context, groupID primitive.ObjectID, contentType string, contentID primitive.ObjectID) (reportedContent, error) {
	switch contentType {
	case models.ContentPost:
		p, err := h.Posts.GetByID(ctx, contentID)
		if err != nil {
			return reportedContent{}, err
		}
		if p.GroupID != groupID {
			return reportedContent{}, apperr.New(apperr.NotFound, "post not found")
		}
		return reportedContent{authorID: p.AuthorID, postID: p.ID}, nil
	case models.ContentComment:
		c, err := h.Comments.GetByID(ctx, contentID)
		if err != nil {
			return reportedContent{}, err
		}
		if c.GroupID != groupID {
			return reportedContent{}, apperr.New(apperr.NotFound, "comment not found")
		}
		return reportedContent{authorID: c.AuthorID, postID: c.PostID}, nil
	default:
		return reportedContent{}, apperr.Newf(apperr.InvalidArgument, "unknown content type %q", contentType)
	}
}

// removeReportedContent soft-deletes the content a resolved report points
// at. Failures are logged; the report stays resolved either way.
func (h *Handler) removeReportedContent(ctx context.Context, actorID, groupID primitive.ObjectID, rep *models.Report) {
	switch rep.ContentType {
	case models.ContentPost:
		if _, err := h.Posts.Mutate(ctx, rep.ContentID, func(p *models.GroupPost) error {
			p.IsActive = false
			return nil
		}); err != nil {
			h.Log.Error("reported post removal failed", zap.Error(err), zap.String("report_id", rep.ID))
			return
		}
		h.refreshGroupActivity(ctx, groupID)
	case models.ContentComment:
		c, err := h.Comments.GetByID(ctx, rep.ContentID)
		if err != nil {
			h.Log.Error("reported comment load failed", zap.Error(err), zap.String("report_id", rep.ID))
			return
		}
		if err := h.Comments.Deactivate(ctx, rep.ContentID); err != nil {
			h.Log.Error("reported comment removal failed", zap.Error(err), zap.String("report_id", rep.ID))
			return
		}
		if _, err := h.recomputePostStats(ctx, c.PostID); err != nil {
			h.Log.Warn("post stats recompute failed", zap.Error(err), zap.String("post_id", c.PostID.Hex()))
		}
	}
	h.Audit.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventContentRemoved,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
		Details:   map[string]string{"report_id": rep.ID, "content_type": rep.ContentType},
	})
}

// dispatchResolution notifies the affected users after a resolution lands.
func (h *Handler) dispatchResolution(ctx context.Context, groupID, reporterID primitive.ObjectID, outcome moderation.Outcome) {
	h.Notify.Dispatch(ctx, notify.Event{
		Type:    notify.EventReportResolved,
		UserID:  reporterID,
		GroupID: groupID,
		Message: "your report has been resolved",
		Details: map[string]string{"resolution": outcome.Report.Resolution},
	})
	if outcome.WarnedUser != nil {
		h.Notify.Dispatch(ctx, notify.Event{
			Type:    notify.EventMemberWarned,
			UserID:  *outcome.WarnedUser,
			GroupID: groupID,
			Message: "you have received a moderation warning",
		})
	}
	if outcome.BannedUser != nil {
		h.Notify.Dispatch(ctx, notify.Event{
			Type:    notify.EventMemberBanned,
			UserID:  *outcome.BannedUser,
			GroupID: groupID,
			Message: "you have been banned from the group",
		})
	}
}
