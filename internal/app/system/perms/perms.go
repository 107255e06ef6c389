// internal/app/system/perms/perms.go

// Package perms decides whether a (user, group, action) triple is allowed.
// It is pure: no storage access, no side effects. Callers translate a
// missing group to NotFound before ever reaching this evaluator.
package perms

import (
	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is the closed set of things a user can ask to do in a group.
type Action int

const (
	ActionView Action = iota
	ActionPost
	ActionModerate
	ActionAdmin
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionPost:
		return "post"
	case ActionModerate:
		return "moderate"
	case ActionAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Decision is the outcome of an evaluation. Deny is nil when Allowed.
type Decision struct {
	Allowed bool
	Deny    *apperr.Error
}

func allow() Decision { return Decision{Allowed: true} }

func deny(err *apperr.Error) Decision { return Decision{Deny: err} }

// hiddenGroup is the deny used for secret groups: the response must be
// indistinguishable from the group not existing.
func hiddenGroup() Decision {
	return deny(apperr.New(apperr.NotFound, "group not found"))
}

// Evaluate decides whether userID may perform action in g.
func Evaluate(g *models.Group, userID primitive.ObjectID, action Action) Decision {
	member := g.Member(userID)

	// Secret groups do not reveal their existence to non-members.
	if g.Type == models.GroupSecret && member == nil {
		return hiddenGroup()
	}

	// Private groups require membership for anything beyond viewing.
	if g.Type == models.GroupPrivate && action != ActionView && member == nil {
		return deny(apperr.New(apperr.Forbidden, "must be a member of this group"))
	}

	switch action {
	case ActionView:
		switch g.Type {
		case models.GroupPublic:
			return allow()
		case models.GroupPrivate:
			if member != nil {
				return allow()
			}
			return deny(apperr.New(apperr.Forbidden, "must be a member to view this group"))
		default: // secret, membership already established above
			return allow()
		}

	case ActionPost:
		switch g.PostingPermission {
		case models.PostAdminsOnly:
			if member != nil && member.Role == models.RoleAdmin {
				return allow()
			}
			return deny(apperr.New(apperr.Forbidden, "only admins may post in this group"))
		case models.PostApprovedMembers:
			if member != nil && (member.Role == models.RoleAdmin || member.Role == models.RoleModerator) {
				return allow()
			}
			if member != nil && member.Approved {
				return allow()
			}
			return deny(apperr.New(apperr.Forbidden, "only approved members may post in this group"))
		default: // anyone who can see the group
			return allow()
		}

	case ActionModerate:
		if member != nil && (member.Role == models.RoleAdmin || member.Role == models.RoleModerator) {
			return allow()
		}
		return deny(apperr.New(apperr.Forbidden, "moderator privileges required"))

	case ActionAdmin:
		if member != nil && member.Role == models.RoleAdmin {
			return allow()
		}
		return deny(apperr.New(apperr.Forbidden, "admin privileges required"))
	}

	return deny(apperr.New(apperr.InvalidArgument, "unknown action"))
}

// Require is Evaluate collapsed to an error, for call sites that only gate.
func Require(g *models.Group, userID primitive.ObjectID, action Action) error {
	d := Evaluate(g, userID, action)
	if d.Allowed {
		return nil
	}
	return d.Deny
}
