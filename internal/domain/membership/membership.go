// internal/domain/membership/membership.go

// Package membership owns the per-(group, user) lifecycle state machine:
// NonMember -> PendingRequest -> Member(role) -> Banned. Transitions mutate
// the in-memory group document and are applied through the group store's
// conditional write, so a transition either lands whole or not at all.
//
// Invariants enforced before any mutation:
//   - a group always keeps at least one admin
//   - banned users are never simultaneously members
//   - at most one pending request per user
//   - Stats.MemberCount always equals len(Members)
package membership

import (
	"time"

	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/perms"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinResult tells the caller whether a join produced a membership or a
// pending request.
type JoinResult struct {
	Pending bool
}

// Join moves userID from NonMember to Member or PendingRequest.
func Join(g *models.Group, userID primitive.ObjectID, message string, now time.Time) (JoinResult, error) {
	if g.IsMember(userID) {
		return JoinResult{}, apperr.New(apperr.Conflict, "already a member of this group")
	}
	if g.IsBanned(userID) {
		return JoinResult{}, apperr.New(apperr.Forbidden, "banned from this group")
	}
	// Secret groups are invitation-only and hidden from non-members, so a
	// join attempt gets the same answer as a missing group.
	if g.Type == models.GroupSecret {
		return JoinResult{}, apperr.New(apperr.NotFound, "group not found")
	}

	if g.JoinApproval == models.JoinAdminApproval {
		if g.PendingRequest(userID) != nil {
			return JoinResult{}, apperr.New(apperr.Conflict, "a membership request is already pending")
		}
		g.MembershipRequests = append(g.MembershipRequests, models.MembershipRequest{
			UserID:      userID,
			Message:     message,
			RequestedAt: now,
		})
		return JoinResult{Pending: true}, nil
	}

	g.Members = append(g.Members, models.GroupMember{
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: now,
		Approved: true,
	})
	refreshStats(g, now)
	return JoinResult{}, nil
}

// ApproveRequest promotes a pending request to a member entry.
// The actor must hold moderate permission.
func ApproveRequest(g *models.Group, actorID, userID primitive.ObjectID, now time.Time) error {
	if err := perms.Require(g, actorID, perms.ActionModerate); err != nil {
		return err
	}
	if g.PendingRequest(userID) == nil {
		return apperr.New(apperr.NotFound, "membership request not found")
	}
	dropRequest(g, userID)
	g.Members = append(g.Members, models.GroupMember{
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: now,
		Approved: true,
	})
	refreshStats(g, now)
	return nil
}

// RejectRequest removes a pending request without creating a membership.
func RejectRequest(g *models.Group, actorID, userID primitive.ObjectID) error {
	if err := perms.Require(g, actorID, perms.ActionModerate); err != nil {
		return err
	}
	if g.PendingRequest(userID) == nil {
		return apperr.New(apperr.NotFound, "membership request not found")
	}
	dropRequest(g, userID)
	return nil
}

// CancelRequest lets the requesting user withdraw their own pending request.
func CancelRequest(g *models.Group, userID primitive.ObjectID) error {
	if g.PendingRequest(userID) == nil {
		return apperr.New(apperr.NotFound, "no pending membership request")
	}
	dropRequest(g, userID)
	return nil
}

// Leave removes the caller's own membership. Rejected when the caller is the
// sole admin; another admin must be promoted first.
func Leave(g *models.Group, userID primitive.ObjectID, now time.Time) error {
	m := g.Member(userID)
	if m == nil {
		return apperr.New(apperr.NotFound, "not a member of this group")
	}
	if m.Role == models.RoleAdmin && g.AdminCount() == 1 {
		return apperr.New(apperr.Conflict, "cannot leave as the only admin; promote another admin first")
	}
	dropMember(g, userID)
	refreshStats(g, now)
	return nil
}

// Remove ejects targetID from the group. The actor needs moderate
// permission, or admin permission when the target is an admin.
func Remove(g *models.Group, actorID, targetID primitive.ObjectID, now time.Time) error {
	if err := perms.Require(g, actorID, perms.ActionModerate); err != nil {
		return err
	}
	target := g.Member(targetID)
	if target == nil {
		return apperr.New(apperr.NotFound, "member not found")
	}
	if target.Role == models.RoleAdmin {
		if err := perms.Require(g, actorID, perms.ActionAdmin); err != nil {
			return err
		}
		if g.AdminCount() == 1 {
			return apperr.New(apperr.Conflict, "cannot remove the only admin")
		}
	}
	dropMember(g, targetID)
	refreshStats(g, now)
	return nil
}

// Ban moves a member or pending requester to the banned state. Admin only.
// There is no unban transition; the banned state is terminal.
func Ban(g *models.Group, actorID, targetID primitive.ObjectID, reason string, now time.Time) error {
	if err := perms.Require(g, actorID, perms.ActionAdmin); err != nil {
		return err
	}
	if g.IsBanned(targetID) {
		return apperr.New(apperr.Conflict, "user is already banned")
	}
	if g.Member(targetID) == nil && g.PendingRequest(targetID) == nil {
		return apperr.New(apperr.NotFound, "user is not a member or requester of this group")
	}
	return applyBan(g, actorID, targetID, reason, now)
}

// ApplyBan records a ban without requiring existing membership. It backs the
// moderation workflow, where the content author may already have left the
// group. The sole-admin invariant still blocks the ban.
func ApplyBan(g *models.Group, actorID, targetID primitive.ObjectID, reason string, now time.Time) error {
	if g.IsBanned(targetID) {
		return nil
	}
	return applyBan(g, actorID, targetID, reason, now)
}

func applyBan(g *models.Group, actorID, targetID primitive.ObjectID, reason string, now time.Time) error {
	if m := g.Member(targetID); m != nil && m.Role == models.RoleAdmin && g.AdminCount() == 1 {
		return apperr.New(apperr.Conflict, "cannot ban the only admin")
	}
	dropMember(g, targetID)
	dropRequest(g, targetID)
	g.BannedUsers = append(g.BannedUsers, models.BannedUser{
		UserID:   targetID,
		Reason:   reason,
		BannedBy: actorID,
		BannedAt: now,
	})
	refreshStats(g, now)
	return nil
}

// ChangeRole updates a member's role. Admin only. Rejected when the change
// would leave the group without an admin.
func ChangeRole(g *models.Group, actorID, targetID primitive.ObjectID, newRole string, now time.Time) error {
	if err := perms.Require(g, actorID, perms.ActionAdmin); err != nil {
		return err
	}
	if !models.ValidRole(newRole) {
		return apperr.Newf(apperr.InvalidArgument, "unknown role %q", newRole)
	}
	target := g.Member(targetID)
	if target == nil {
		return apperr.New(apperr.NotFound, "member not found")
	}
	if target.Role == models.RoleAdmin && newRole != models.RoleAdmin && g.AdminCount() == 1 {
		return apperr.New(apperr.Conflict, "cannot demote the only admin; promote another admin first")
	}
	target.Role = newRole
	refreshStats(g, now)
	return nil
}

func dropMember(g *models.Group, userID primitive.ObjectID) {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return
		}
	}
}

func dropRequest(g *models.Group, userID primitive.ObjectID) {
	for i := range g.MembershipRequests {
		if g.MembershipRequests[i].UserID == userID {
			g.MembershipRequests = append(g.MembershipRequests[:i], g.MembershipRequests[i+1:]...)
			return
		}
	}
}

// refreshStats keeps the member counters derived from the member list
// rather than adjusted at call sites.
func refreshStats(g *models.Group, now time.Time) {
	g.Stats.MemberCount = len(g.Members)
	active := 0
	for i := range g.Members {
		if g.Members[i].Approved {
			active++
		}
	}
	g.Stats.ActiveMembers = active
	g.Stats.LastActivity = now
}
