package dashboard

import (
	"context"
	"strings"
)

// Actor is the administrator a mutation is attributed to in the activity feed.
type Actor struct {
	ID   string
	Name string
	Role string
}

// Anonymous reports whether no administrator is attached.
func (a Actor) Anonymous() bool {
	return strings.TrimSpace(a.ID) == ""
}

type actorKey struct{}

// WithActor attaches actor to ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor attached to ctx, or the zero Actor.
func ActorFrom(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}

// ActorFor maps the viewer of a request onto the actor recorded for its
// commands.
func ActorFor(viewer ViewerContext) Actor {
	return Actor{ID: viewer.UserID, Name: viewer.Name, Role: viewer.Role}
}
