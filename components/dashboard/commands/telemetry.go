package commands

import (
	"context"
	"maps"

	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/pkg/activity"
)

// Telemetry allows commands to emit structured events.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// Invalidator re-queries a resource after a successful mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, resource dashboard.Resource) error
}

// ActivityEmitter records what administrators did.
type ActivityEmitter interface {
	Emit(ctx context.Context, evt activity.Event) error
}

// Options carries the collaborators shared by every command.
type Options struct {
	Validator   dashboard.PayloadValidator
	Invalidator Invalidator
	Activity    ActivityEmitter
	Telemetry   Telemetry
}

type base struct {
	validator   dashboard.PayloadValidator
	invalidator Invalidator
	activity    ActivityEmitter
	telemetry   Telemetry
}

func newBase(opts Options) base {
	validator := opts.Validator
	if validator == nil {
		validator = dashboard.NewJSONSchemaValidator()
	}
	return base{
		validator:   validator,
		invalidator: opts.Invalidator,
		activity:    opts.Activity,
		telemetry:   normalizeTelemetry(opts.Telemetry),
	}
}

// mutation describes a successful write.
type mutation struct {
	resource   dashboard.Resource
	verb       string
	objectType string
	objectID   string
	metadata   map[string]any
}

// completed emits activity and telemetry, then invalidates the resource.
// The write already succeeded, so activity and re-query failures are only
// recorded as telemetry and never returned.
func (b base) completed(ctx context.Context, m mutation) error {
	actor := dashboard.ActorFrom(ctx)
	event := "dashboard." + m.objectType + "." + m.verb
	if b.activity != nil {
		metadata := m.metadata
		if actor.Role != "" {
			metadata = maps.Clone(metadata)
			if metadata == nil {
				metadata = map[string]any{}
			}
			metadata["actor_role"] = actor.Role
		}
		err := b.activity.Emit(ctx, activity.Event{
			Verb:           m.verb,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			ObjectType:     m.objectType,
			ObjectID:       m.objectID,
			DefinitionCode: string(m.resource),
			Metadata:       metadata,
		})
		if err != nil {
			b.telemetry.Record(ctx, dashboard.TelemetryActivityError, map[string]any{
				"event": event,
				"error": err.Error(),
			})
		}
	}
	b.telemetry.Record(ctx, event, map[string]any{
		"object_id": m.objectID,
		"actor_id":  actor.ID,
	})
	if b.invalidator == nil {
		return nil
	}
	if err := b.invalidator.Invalidate(ctx, m.resource); err != nil {
		b.telemetry.Record(ctx, dashboard.TelemetryRefreshError, map[string]any{
			"event":    event,
			"resource": string(m.resource),
			"error":    err.Error(),
		})
	}
	return nil
}
