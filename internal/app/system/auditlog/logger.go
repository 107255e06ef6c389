// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/circlehub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config controls where audit events go, per category.
// Values: "all" (MongoDB + zap), "db", "log", or "off".
type Config struct {
	Group      string
	Membership string
	Moderation string
}

// Logger records audit events to MongoDB (via audit.Store) and to
// structured logs (via zap), per configuration.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) settingFor(category string) string {
	switch category {
	case audit.CategoryGroup:
		return l.config.Group
	case audit.CategoryMembership:
		return l.config.Membership
	case audit.CategoryModeration:
		return l.config.Moderation
	default:
		return "all"
	}
}

func (l *Logger) logToZap(ev audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", ev.Category),
		zap.String("event_type", ev.EventType),
		zap.Bool("success", ev.Success),
	}
	if ev.GroupID != nil {
		fields = append(fields, zap.String("group_id", ev.GroupID.Hex()))
	}
	if ev.ActorID != nil {
		fields = append(fields, zap.String("actor_id", ev.ActorID.Hex()))
	}
	if ev.UserID != nil {
		fields = append(fields, zap.String("user_id", ev.UserID.Hex()))
	}
	for k, v := range ev.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	if ev.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event. A nil Logger is a no-op so tests can skip
// audit wiring entirely.
func (l *Logger) Log(ctx context.Context, ev audit.Event) {
	if l == nil {
		return
	}
	setting := l.settingFor(ev.Category)
	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(ev)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, ev); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", ev.EventType),
			)
		}
	}
}

// --- Group events ---

// GroupCreated logs creation of a group.
func (l *Logger) GroupCreated(ctx context.Context, actorID, groupID primitive.ObjectID, groupName string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryGroup,
		EventType: audit.EventGroupCreated,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
		Details:   map[string]string{"group_name": groupName},
	})
}

// GroupUpdated logs a settings update on a group.
func (l *Logger) GroupUpdated(ctx context.Context, actorID, groupID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryGroup,
		EventType: audit.EventGroupUpdated,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
		Details:   map[string]string{"fields_changed": fieldsChanged},
	})
}

// GroupDeleted logs deletion of a group.
func (l *Logger) GroupDeleted(ctx context.Context, actorID, groupID primitive.ObjectID, groupName string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryGroup,
		EventType: audit.EventGroupDeleted,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
		Details:   map[string]string{"group_name": groupName},
	})
}

// --- Membership events ---

// MembershipEvent logs one membership lifecycle transition.
func (l *Logger) MembershipEvent(ctx context.Context, eventType string, actorID, targetID, groupID primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryMembership,
		EventType: eventType,
		ActorID:   &actorID,
		UserID:    &targetID,
		GroupID:   &groupID,
		Success:   true,
		Details:   details,
	})
}

// --- Moderation events ---

// ReportFiled logs submission of a report.
func (l *Logger) ReportFiled(ctx context.Context, reporterID, groupID primitive.ObjectID, reportID, contentType string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventReportFiled,
		ActorID:   &reporterID,
		GroupID:   &groupID,
		Success:   true,
		Details:   map[string]string{"report_id": reportID, "content_type": contentType},
	})
}

// ReportResolved logs resolution of a report.
func (l *Logger) ReportResolved(ctx context.Context, actorID, groupID primitive.ObjectID, reportID, resolution string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventReportResolved,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
		Details:   map[string]string{"report_id": reportID, "resolution": resolution},
	})
}
