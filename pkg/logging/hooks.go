package logging

import (
	"context"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

// Telemetry records dashboard and command telemetry as debug entries.
type Telemetry struct {
	Logger logrus.FieldLogger
}

func (t Telemetry) Record(ctx context.Context, event string, payload map[string]any) {
	entry := WithCorrelationID(ctx, t.Logger).WithField("event", event)
	if len(payload) > 0 {
		entry = entry.WithFields(logrus.Fields(payload))
	}
	if errMsg, ok := payload["error"].(string); ok && errMsg != "" {
		entry.Warn("telemetry")
		return
	}
	entry.Debug("telemetry")
}

// RefreshLogger logs every collection invalidation.
type RefreshLogger struct {
	Logger logrus.FieldLogger
}

var _ dashboard.RefreshHook = RefreshLogger{}

func (r RefreshLogger) Invalidated(ctx context.Context, event dashboard.InvalidationEvent) error {
	entry := WithCorrelationID(ctx, r.Logger).WithField("resource", string(event.Resource))
	if event.Error != "" {
		entry.WithField("error", event.Error).Warn("collection refresh failed")
		return nil
	}
	entry.Info("collection refreshed")
	return nil
}

// ActivitySink writes go-users activity records to the log. It backs the
// usersink hook when no activity store is configured.
type ActivitySink struct {
	Logger logrus.FieldLogger
}

func (s ActivitySink) Log(ctx context.Context, record types.ActivityRecord) error {
	WithCorrelationID(ctx, s.Logger).WithFields(logrus.Fields{
		"actor_id":    record.ActorID.String(),
		"verb":        record.Verb,
		"object_type": record.ObjectType,
		"object_id":   record.ObjectID,
		"channel":     record.Channel,
	}).Info("activity")
	return nil
}
