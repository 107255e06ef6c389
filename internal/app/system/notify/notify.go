// internal/app/system/notify/notify.go

// Package notify is the fire-and-forget seam to the external notification
// service. The core never blocks on delivery: Dispatch returns immediately
// and failures are the dispatcher's problem.
package notify

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event types dispatched by the moderation and membership flows.
const (
	EventMemberBanned    = "member_banned"
	EventMemberWarned    = "member_warned"
	EventReportResolved  = "report_resolved"
	EventRequestApproved = "request_approved"
	EventRequestRejected = "request_rejected"
)

// Event is one notification to deliver to a user.
type Event struct {
	Type    string
	UserID  primitive.ObjectID
	GroupID primitive.ObjectID
	Message string
	Details map[string]string
}

// Dispatcher hands events to the delivery service. Implementations must
// not block the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// LogDispatcher logs events instead of delivering them. It stands in for
// the real delivery service in development and tests.
type LogDispatcher struct {
	log *zap.Logger
}

// NewLogDispatcher returns a Dispatcher that writes events to the log.
func NewLogDispatcher(log *zap.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

// Dispatch logs the event and returns immediately.
func (d *LogDispatcher) Dispatch(_ context.Context, ev Event) {
	d.log.Info("notification dispatched",
		zap.String("type", ev.Type),
		zap.String("user_id", ev.UserID.Hex()),
		zap.String("group_id", ev.GroupID.Hex()),
		zap.String("message", ev.Message),
	)
}
