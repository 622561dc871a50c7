package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-ticketdash/components/dashboard"
)

// RefreshInput lists the resources to re-query. Empty means all.
type RefreshInput struct {
	Resources []dashboard.Resource `json:"resources"`
}

type refresher interface {
	Invalidator
	RefreshAll(ctx context.Context) error
}

// RefreshCommand re-queries collections on demand, e.g. from a reload button.
type RefreshCommand struct {
	service   refresher
	telemetry Telemetry
}

// NewRefreshCommand creates the command.
func NewRefreshCommand(service refresher, telemetry Telemetry) *RefreshCommand {
	return &RefreshCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshInput] = (*RefreshCommand)(nil)

// Execute invalidates the requested resources.
func (c *RefreshCommand) Execute(ctx context.Context, msg RefreshInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	var err error
	if len(msg.Resources) == 0 {
		err = c.service.RefreshAll(ctx)
	} else {
		var errs []error
		for _, r := range msg.Resources {
			errs = append(errs, c.service.Invalidate(ctx, r))
		}
		err = errors.Join(errs...)
	}
	c.telemetry.Record(ctx, dashboard.TelemetryRefresh, map[string]any{
		"resources": len(msg.Resources),
		"failed":    err != nil,
	})
	return err
}
