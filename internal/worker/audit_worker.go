package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/events"
)

// StartAuditWorker subscribes a structured audit log to every account event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	dispatcher.Subscribe(func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID.String()),
			zap.String("event", string(event.Type)),
			zap.String("subject_id", event.SubjectID.String()),
			zap.Time("at", event.Timestamp),
		}
		if event.ActorID != nil {
			fields = append(fields, zap.String("actor_id", event.ActorID.String()))
		}
		audit.Info("account event", fields...)
		return nil
	})
}
