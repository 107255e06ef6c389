// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/circlehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires a verified bearer token.
	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireUser)

		// LIST / CREATE
		pr.Get("/", h.HandleListGroups)
		pr.Post("/", h.HandleCreateGroup)

		// VIEW / EDIT / DELETE
		pr.Get("/{groupID}", h.HandleViewGroup)
		pr.Patch("/{groupID}", h.HandleEditGroup)
		pr.Delete("/{groupID}", h.HandleDeleteGroup)

		// MEMBERSHIP (self-service: join, leave, cancel_request)
		pr.Post("/{groupID}/membership", h.HandleMembershipAction)

		// MEMBERSHIP REQUESTS (admin/moderator)
		pr.Get("/{groupID}/requests", h.HandleListRequests)
		pr.Post("/{groupID}/requests/{userID}/approve", h.HandleApproveRequest)
		pr.Post("/{groupID}/requests/{userID}/reject", h.HandleRejectRequest)

		// MEMBERS
		pr.Get("/{groupID}/members", h.HandleListMembers)
		pr.Patch("/{groupID}/members/{userID}", h.HandleChangeRole)
		pr.Delete("/{groupID}/members/{userID}", h.HandleRemoveMember)
		pr.Post("/{groupID}/members/{userID}/ban", h.HandleBanMember)

		// POSTS
		pr.Get("/{groupID}/posts", h.HandleListPosts)
		pr.Post("/{groupID}/posts", h.HandleCreatePost)
		pr.Get("/{groupID}/posts/{postID}", h.HandleViewPost)
		pr.Patch("/{groupID}/posts/{postID}", h.HandleEditPost)
		pr.Delete("/{groupID}/posts/{postID}", h.HandleDeletePost)
		pr.Post("/{groupID}/posts/{postID}/pin", h.HandlePinPost)

		// COMMENTS
		pr.Get("/{groupID}/posts/{postID}/comments", h.HandleListComments)
		pr.Post("/{groupID}/posts/{postID}/comments", h.HandleCreateComment)
		pr.Patch("/{groupID}/posts/{postID}/comments/{commentID}", h.HandleEditComment)
		pr.Delete("/{groupID}/posts/{postID}/comments/{commentID}", h.HandleDeleteComment)

		// REACTIONS (toggle semantics: same type removes, new type replaces)
		pr.Post("/{groupID}/posts/{postID}/reactions", h.HandleReact)

		// REPORTS
		pr.Get("/{groupID}/reports", h.HandleListReports)
		pr.Post("/{groupID}/reports", h.HandleFileReport)
		pr.Post("/{groupID}/reports/{reportID}/resolve", h.HandleResolveReport)
	})

	return r
}
