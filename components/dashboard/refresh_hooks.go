package dashboard

import (
	"context"
	"errors"
)

// RefreshHooks fans an invalidation out to several hooks, for example the
// WebSocket broadcaster and a logging hook.
type RefreshHooks []RefreshHook

// Invalidated notifies every hook and joins their errors.
func (h RefreshHooks) Invalidated(ctx context.Context, event InvalidationEvent) error {
	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Invalidated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshHookFunc adapts a function into a RefreshHook.
type RefreshHookFunc func(ctx context.Context, event InvalidationEvent) error

// Invalidated calls f.
func (f RefreshHookFunc) Invalidated(ctx context.Context, event InvalidationEvent) error {
	return f(ctx, event)
}
