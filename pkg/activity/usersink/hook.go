package usersink

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-ticketdash/pkg/activity"
)

// Sink matches the go-users activity sink.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook forwards dashboard activity into a go-users activity sink.
type Hook struct {
	Sink Sink
}

var _ activity.Hook = Hook{}

// Notify maps evt into a go-users activity record.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil {
		return errors.New("usersink: sink is required")
	}
	evt = activity.NormalizeEvent(evt)
	if !evt.Valid() {
		return nil
	}
	data := make(map[string]any, len(evt.Metadata)+3)
	for k, v := range evt.Metadata {
		data[k] = v
	}
	if evt.DefinitionCode != "" {
		data["definition_code"] = evt.DefinitionCode
	}
	if len(evt.Recipients) > 0 {
		data["recipients"] = evt.Recipients
	}
	if evt.ActorName != "" {
		data["actor_name"] = evt.ActorName
	}
	return h.Sink.Log(ctx, types.ActivityRecord{
		ActorID:    ToUUID(evt.ActorID),
		UserID:     ToUUID(evt.UserID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       data,
		OccurredAt: evt.OccurredAt,
	})
}

var backendNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("eventmaster/backend"))

// ToUUID parses id as a UUID. Backend identifiers (integers) map to a stable
// name-based UUID; empty ids map to uuid.Nil.
func ToUUID(id string) uuid.UUID {
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.Nil
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.NewSHA1(backendNamespace, []byte(id))
}
