// internal/domain/moderation/moderation.go

// Package moderation owns report submission and one-shot report resolution.
// Reports are embedded on the group document, so filing and resolving are
// single conditional writes. Content soft-deletion happens in the post and
// comment collections and is signalled back to the caller via Outcome.
package moderation

import (
	"strings"
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/domain/membership"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is the closed set of report resolutions a moderator can apply.
type Action int

const (
	ActionDismiss Action = iota
	ActionRemoveContent
	ActionWarnUser
	ActionBanUser
)

// ParseAction maps the wire value onto the closed action set.
func ParseAction(s string) (Action, error) {
	switch s {
	case "dismiss":
		return ActionDismiss, nil
	case "remove_content":
		return ActionRemoveContent, nil
	case "warn_user":
		return ActionWarnUser, nil
	case "ban_user":
		return ActionBanUser, nil
	default:
		return 0, apperr.Newf(apperr.InvalidArgument, "unknown report action %q", s)
	}
}

func (a Action) String() string {
	switch a {
	case ActionDismiss:
		return "dismiss"
	case ActionRemoveContent:
		return "remove_content"
	case ActionWarnUser:
		return "warn_user"
	case ActionBanUser:
		return "ban_user"
	default:
		return "unknown"
	}
}

// File appends a pending report to the group. The reporter needs view
// permission; the caller has already verified the content exists and is
// active. Duplicate reports by the same user are allowed.
func File(g *models.Group, reporterID primitive.ObjectID, id, contentType string, contentID primitive.ObjectID, reason, details string, now time.Time) (*models.Report, error) {
	if err := perms.Require(g, reporterID, perms.ActionView); err != nil {
		return nil, err
	}
	if !models.ValidContentType(contentType) {
		return nil, apperr.Newf(apperr.InvalidArgument, "unknown content type %q", contentType)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "a report reason is required")
	}
	g.Reports = append(g.Reports, models.Report{
		ID:          id,
		ReporterID:  reporterID,
		ContentType: contentType,
		ContentID:   contentID,
		Reason:      reason,
		Details:     details,
		Status:      models.ReportPending,
		CreatedAt:   now,
	})
	return &g.Reports[len(g.Reports)-1], nil
}

// Outcome tells the caller which cross-collection side effect to apply
// after the group document write lands.
type Outcome struct {
	Report *models.Report
	// RemoveContent is set for remove_content resolutions: the referenced
	// post or comment must be soft-deleted.
	RemoveContent bool
	// WarnedUser / BannedUser identify the content author the resolution
	// acted on, for notification dispatch.
	WarnedUser *primitive.ObjectID
	BannedUser *primitive.ObjectID
}

// Resolve applies one of the closed resolution actions to a pending report.
// authorID is the author of the reported content, resolved by the caller.
// A report resolves exactly once; resolving again is rejected with Conflict
// and leaves the resolution fields untouched.
func Resolve(g *models.Group, reportID string, actorID primitive.ObjectID, action Action, authorID primitive.ObjectID, note string, now time.Time) (Outcome, error) {
	if err := perms.Require(g, actorID, perms.ActionModerate); err != nil {
		return Outcome{}, err
	}
	if action == ActionBanUser {
		if err := perms.Require(g, actorID, perms.ActionAdmin); err != nil {
			return Outcome{}, err
		}
	}

	rep := g.FindReport(reportID)
	if rep == nil {
		return Outcome{}, apperr.New(apperr.NotFound, "report not found")
	}
	if rep.Status == models.ReportResolved {
		return Outcome{}, apperr.New(apperr.Conflict, "report is already resolved")
	}

	out := Outcome{Report: rep}

	switch action {
	case ActionDismiss:
		rep.Resolution = models.ResolutionDismissed

	case ActionRemoveContent:
		rep.Resolution = models.ResolutionContentRemoved
		out.RemoveContent = true

	case ActionWarnUser:
		// Warning a user who already left the group is a no-op, not an error.
		if m := g.Member(authorID); m != nil {
			m.Warnings = append(m.Warnings, models.Warning{
				Reason:   rep.Reason,
				IssuedBy: actorID,
				IssuedAt: now,
			})
			out.WarnedUser = &authorID
		}
		rep.Resolution = models.ResolutionUserWarned

	case ActionBanUser:
		if err := membership.ApplyBan(g, actorID, authorID, rep.Reason, now); err != nil {
			return Outcome{}, err
		}
		rep.Resolution = models.ResolutionUserBanned
		out.BannedUser = &authorID

	default:
		return Outcome{}, apperr.New(apperr.InvalidArgument, "unknown report action")
	}

	rep.Status = models.ReportResolved
	rep.ResolvedBy = &actorID
	rep.ResolvedAt = &now
	rep.Note = note
	return out, nil
}
