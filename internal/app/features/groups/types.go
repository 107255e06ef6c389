// internal/app/features/groups/types.go
package groups

import (
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/identity"
	"github.com/dalemusser/circlehub/internal/app/system/paging"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- request payloads ---

type createGroupRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags"`
	CoverImage        string   `json:"cover_image"`
	Type              string   `json:"type"`
	JoinApproval      string   `json:"join_approval"`
	PostingPermission string   `json:"posting_permission"`
}

// editGroupRequest uses pointers so a PATCH only touches supplied fields.
type editGroupRequest struct {
	Name              *string   `json:"name"`
	Description       *string   `json:"description"`
	Tags              *[]string `json:"tags"`
	CoverImage        *string   `json:"cover_image"`
	Type              *string   `json:"type"`
	JoinApproval      *string   `json:"join_approval"`
	PostingPermission *string   `json:"posting_permission"`
}

type membershipActionRequest struct {
	Action  string `json:"action"` // join | leave | cancel_request
	Message string `json:"message"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type banRequest struct {
	Reason string `json:"reason"`
}

type createPostRequest struct {
	Content string   `json:"content"`
	Media   []string `json:"media"`
}

type editPostRequest struct {
	Content string `json:"content"`
}

type pinPostRequest struct {
	Pinned bool `json:"pinned"`
}

type createCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID string `json:"parent_comment_id"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}

type reactRequest struct {
	Type string `json:"type"`
}

type fileReportRequest struct {
	ContentType string `json:"content_type"` // post | comment
	ContentID   string `json:"content_id"`
	Reason      string `json:"reason"`
	Details     string `json:"details"`
}

type resolveReportRequest struct {
	Action string `json:"action"` // dismiss | remove_content | warn_user | ban_user
	Note   string `json:"note"`
}

// --- response views ---

// memberStatus values reported to the viewer.
const (
	statusNone      = "none"
	statusPending   = "pending"
	statusMember    = "member"
	statusModerator = "moderator"
	statusAdmin     = "admin"
	statusBanned    = "banned"
)

type groupSummary struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	CoverImage   string             `json:"cover_image,omitempty"`
	Type         string             `json:"type"`
	MemberCount  int                `json:"member_count"`
	PostCount    int                `json:"post_count"`
	MemberStatus string             `json:"member_status"`
	CreatedAt    time.Time          `json:"created_at"`
}

// groupView is the full group document as seen by a particular viewer.
// Request, ban and report lists only appear for moderators and admins.
type groupView struct {
	groupSummary
	JoinApproval      string                     `json:"join_approval"`
	PostingPermission string                     `json:"posting_permission"`
	CreatorID         primitive.ObjectID         `json:"creator_id"`
	Stats             models.GroupStats          `json:"stats"`
	Members           []memberView               `json:"members,omitempty"`
	PendingRequests   []models.MembershipRequest `json:"pending_requests,omitempty"`
	BannedUsers       []models.BannedUser        `json:"banned_users,omitempty"`
	OpenReports       int                        `json:"open_reports,omitempty"`
}

// memberView is a member entry decorated with identity profile fields.
type memberView struct {
	UserID      primitive.ObjectID `json:"user_id"`
	DisplayName string             `json:"display_name,omitempty"`
	AvatarURL   string             `json:"avatar_url,omitempty"`
	Role        string             `json:"role"`
	JoinedAt    time.Time          `json:"joined_at"`
	Approved    bool               `json:"approved"`
	Warnings    int                `json:"warnings,omitempty"`
}

type requestView struct {
	UserID      primitive.ObjectID `json:"user_id"`
	DisplayName string             `json:"display_name,omitempty"`
	Message     string             `json:"message,omitempty"`
	RequestedAt time.Time          `json:"requested_at"`
}

type postView struct {
	models.GroupPost
	ViewerReaction string `json:"viewer_reaction,omitempty"`
}

type listEnvelope struct {
	Items  any             `json:"items"`
	Paging paging.Envelope `json:"paging"`
}

func summarize(g *models.Group, status string) groupSummary {
	return groupSummary{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		Tags:         g.Tags,
		CoverImage:   g.CoverImage,
		Type:         g.Type,
		MemberCount:  g.Stats.MemberCount,
		PostCount:    g.Stats.PostCount,
		MemberStatus: status,
		CreatedAt:    g.CreatedAt,
	}
}

func memberViews(members []models.GroupMember, profiles map[primitive.ObjectID]identity.Profile) []memberView {
	out := make([]memberView, 0, len(members))
	for i := range members {
		m := &members[i]
		v := memberView{
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
			Approved: m.Approved,
			Warnings: len(m.Warnings),
		}
		if p, ok := profiles[m.UserID]; ok {
			v.DisplayName = p.DisplayName
			v.AvatarURL = p.AvatarURL
		}
		out = append(out, v)
	}
	return out
}
