// internal/app/features/groups/handler.go
package groups

import (
	commentstore "github.com/dalemusser/circlehub/internal/app/store/comments"
	groupstore "github.com/dalemusser/circlehub/internal/app/store/groups"
	poststore "github.com/dalemusser/circlehub/internal/app/store/posts"
	"github.com/dalemusser/circlehub/internal/app/system/auditlog"
	"github.com/dalemusser/circlehub/internal/app/system/identity"
	"github.com/dalemusser/circlehub/internal/app/system/notify"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature. The
// per-action files (membership, posts, comments, reactions, reports) all
// hang off it so routes share one set of stores and collaborator seams.
type Handler struct {
	Groups   *groupstore.Store
	Posts    *poststore.Store
	Comments *commentstore.Store

	Audit     *auditlog.Logger
	Notify    notify.Dispatcher
	Directory identity.Directory
	Log       *zap.Logger
}

// NewHandler constructs a groups Handler. Called from bootstrap's
// BuildHandler, where the stores and collaborators are already wired.
func NewHandler(groups *groupstore.Store, posts *poststore.Store, comments *commentstore.Store, audit *auditlog.Logger, dispatcher notify.Dispatcher, directory identity.Directory, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:    groups,
		Posts:     posts,
		Comments:  comments,
		Audit:     audit,
		Notify:    dispatcher,
		Directory: directory,
		Log:       logger,
	}
}
