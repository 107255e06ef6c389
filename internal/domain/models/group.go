// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group visibility tiers.
const (
	GroupPublic  = "public"
	GroupPrivate = "private"
	GroupSecret  = "secret"
)

// Join approval modes.
const (
	JoinAnyone        = "anyone"
	JoinAdminApproval = "admin_approval"
)

// Posting permission modes.
const (
	PostAnyone          = "anyone"
	PostApprovedMembers = "approved_members"
	PostAdminsOnly      = "admins_only"
)

// Member roles. The role on the member entry is the single source of truth:
// admin and moderator views are computed from member entries, never stored
// as separate lists.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the three member roles.
func ValidRole(role string) bool {
	return role == RoleMember || role == RoleModerator || role == RoleAdmin
}

// ValidGroupType reports whether t is a known visibility tier.
func ValidGroupType(t string) bool {
	return t == GroupPublic || t == GroupPrivate || t == GroupSecret
}

// ValidJoinApproval reports whether m is a known join approval mode.
func ValidJoinApproval(m string) bool {
	return m == JoinAnyone || m == JoinAdminApproval
}

// ValidPostingPermission reports whether m is a known posting permission mode.
func ValidPostingPermission(m string) bool {
	return m == PostAnyone || m == PostApprovedMembers || m == PostAdminsOnly
}

// Warning is a moderation warning attached to a member entry.
type Warning struct {
	Reason   string             `bson:"reason" json:"reason"`
	IssuedBy primitive.ObjectID `bson:"issued_by" json:"issued_by"`
	IssuedAt time.Time          `bson:"issued_at" json:"issued_at"`
}

// GroupMember is one membership entry embedded on the group document.
type GroupMember struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
	Approved bool               `bson:"approved" json:"approved"`
	Warnings []Warning          `bson:"warnings,omitempty" json:"warnings,omitempty"`
}

// MembershipRequest is a pending join request. At most one per user.
type MembershipRequest struct {
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
}

// BannedUser records a ban. A banned user is never simultaneously a member.
type BannedUser struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Reason   string             `bson:"reason" json:"reason"`
	BannedBy primitive.ObjectID `bson:"banned_by" json:"banned_by"`
	BannedAt time.Time          `bson:"banned_at" json:"banned_at"`
}

// Report statuses and resolutions.
const (
	ReportPending  = "pending"
	ReportResolved = "resolved"

	ResolutionDismissed      = "dismissed"
	ResolutionContentRemoved = "content_removed"
	ResolutionUserWarned     = "user_warned"
	ResolutionUserBanned     = "user_banned"
)

// Reportable content types.
const (
	ContentPost    = "post"
	ContentComment = "comment"
)

// ValidContentType reports whether t names reportable content.
func ValidContentType(t string) bool {
	return t == ContentPost || t == ContentComment
}

// Report is a flag raised against a post or comment, embedded on the group.
// Resolution fields are set exactly once, by report handling.
type Report struct {
	ID          string              `bson:"id" json:"id"` // uuid
	ReporterID  primitive.ObjectID  `bson:"reporter_id" json:"reporter_id"`
	ContentType string              `bson:"content_type" json:"content_type"`
	ContentID   primitive.ObjectID  `bson:"content_id" json:"content_id"`
	Reason      string              `bson:"reason" json:"reason"`
	Details     string              `bson:"details,omitempty" json:"details,omitempty"`
	Status      string              `bson:"status" json:"status"`
	Resolution  string              `bson:"resolution,omitempty" json:"resolution,omitempty"`
	ResolvedBy  *primitive.ObjectID `bson:"resolved_by,omitempty" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	Note        string              `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
}

// GroupStats holds the counters the core maintains itself.
// MemberCount always equals len(Members).
type GroupStats struct {
	MemberCount   int       `bson:"member_count" json:"member_count"`
	PostCount     int       `bson:"post_count" json:"post_count"`
	ActiveMembers int       `bson:"active_members" json:"active_members"`
	LastActivity  time.Time `bson:"last_activity" json:"last_activity"`
}

// Group is the root document for the access-control and moderation core.
//
// Members, requests, bans and reports are embedded so that every membership
// and moderation transition is a single conditional write on this document.
// Version is the optimistic concurrency token: every mutation filters on
// {_id, version} and increments it.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CoverImage  string             `bson:"cover_image,omitempty" json:"cover_image,omitempty"` // media reference only
	CreatorID   primitive.ObjectID `bson:"creator_id" json:"creator_id"`

	Type              string `bson:"type" json:"type"`
	JoinApproval      string `bson:"join_approval" json:"join_approval"`
	PostingPermission string `bson:"posting_permission" json:"posting_permission"`

	Members            []GroupMember       `bson:"members" json:"members"`
	MembershipRequests []MembershipRequest `bson:"membership_requests,omitempty" json:"membership_requests,omitempty"`
	BannedUsers        []BannedUser        `bson:"banned_users,omitempty" json:"banned_users,omitempty"`
	Reports            []Report            `bson:"reports,omitempty" json:"reports,omitempty"`

	Stats   GroupStats `bson:"stats" json:"stats"`
	Version int64      `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Member returns the membership entry for userID, or nil.
func (g *Group) Member(userID primitive.ObjectID) *GroupMember {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// IsMember reports whether userID has a membership entry.
func (g *Group) IsMember(userID primitive.ObjectID) bool {
	return g.Member(userID) != nil
}

// IsAdmin reports whether userID is a member with the admin role.
func (g *Group) IsAdmin(userID primitive.ObjectID) bool {
	m := g.Member(userID)
	return m != nil && m.Role == RoleAdmin
}

// IsModerator reports whether userID holds moderator or admin privileges.
func (g *Group) IsModerator(userID primitive.ObjectID) bool {
	m := g.Member(userID)
	return m != nil && (m.Role == RoleModerator || m.Role == RoleAdmin)
}

// AdminIDs returns the computed admin view derived from member roles.
func (g *Group) AdminIDs() []primitive.ObjectID {
	return g.idsWithRole(RoleAdmin)
}

// ModeratorIDs returns the computed moderator view derived from member roles.
func (g *Group) ModeratorIDs() []primitive.ObjectID {
	return g.idsWithRole(RoleModerator)
}

func (g *Group) idsWithRole(role string) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for i := range g.Members {
		if g.Members[i].Role == role {
			ids = append(ids, g.Members[i].UserID)
		}
	}
	return ids
}

// AdminCount returns the number of members holding the admin role.
func (g *Group) AdminCount() int {
	n := 0
	for i := range g.Members {
		if g.Members[i].Role == RoleAdmin {
			n++
		}
	}
	return n
}

// IsBanned reports whether userID appears in the ban list.
func (g *Group) IsBanned(userID primitive.ObjectID) bool {
	for i := range g.BannedUsers {
		if g.BannedUsers[i].UserID == userID {
			return true
		}
	}
	return false
}

// PendingRequest returns the pending membership request for userID, or nil.
func (g *Group) PendingRequest(userID primitive.ObjectID) *MembershipRequest {
	for i := range g.MembershipRequests {
		if g.MembershipRequests[i].UserID == userID {
			return &g.MembershipRequests[i]
		}
	}
	return nil
}

// FindReport returns the embedded report with the given ID, or nil.
func (g *Group) FindReport(id string) *Report {
	for i := range g.Reports {
		if g.Reports[i].ID == id {
			return &g.Reports[i]
		}
	}
	return nil
}
