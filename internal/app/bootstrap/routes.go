// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	groupsfeature "github.com/dalemusser/circlehub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/circlehub/internal/app/features/health"
	commentstore "github.com/dalemusser/circlehub/internal/app/store/comments"
	groupstore "github.com/dalemusser/circlehub/internal/app/store/groups"
	poststore "github.com/dalemusser/circlehub/internal/app/store/posts"
	"github.com/dalemusser/circlehub/internal/app/store/audit"
	"github.com/dalemusser/circlehub/internal/app/system/auditlog"
	"github.com/dalemusser/circlehub/internal/app/system/auth"
	"github.com/dalemusser/circlehub/internal/app/system/identity"
	"github.com/dalemusser/circlehub/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. CircleHub wires the bearer-token verifier, the
// stores, the audit logger and the notification seam, then mounts the
// groups API and the health endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier, err := auth.NewVerifier(appCfg.AuthTokenKey, logger)
	if err != nil {
		logger.Error("token verifier init failed", zap.Error(err))
		return nil, err
	}

	db := deps.CircleHubMongoDatabase
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Group:      appCfg.AuditLogGroup,
		Membership: appCfg.AuditLogMembership,
		Moderation: appCfg.AuditLogModeration,
	})

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CircleHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Groups API: access control, membership, moderation, engagement
	groupsHandler := groupsfeature.NewHandler(
		groupstore.New(db),
		poststore.New(db),
		commentstore.New(db),
		auditLogger,
		notify.NewLogDispatcher(logger),
		identity.NewMongoDirectory(db),
		logger,
	)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, verifier))

	return r, nil
}
