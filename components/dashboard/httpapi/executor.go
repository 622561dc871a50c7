package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/components/dashboard/commands"
)

// ErrCommandNotConfigured is returned when the executor lacks a commander.
var ErrCommandNotConfigured = errors.New("httpapi: command not configured")

// Executor runs dashboard mutations for transports (net/http, go-router).
type Executor interface {
	CreateEvent(ctx context.Context, in dashboard.EventInput) error
	UpdateEvent(ctx context.Context, in commands.UpdateEventInput) error
	CreateTicket(ctx context.Context, in dashboard.TicketInput) error
	UpdateTicket(ctx context.Context, in commands.UpdateTicketInput) error
	DeleteTicket(ctx context.Context, in commands.DeleteTicketInput) error
	CreateAdmin(ctx context.Context, in dashboard.AdminInput) error
	UpdateAdmin(ctx context.Context, in commands.UpdateAdminInput) error
	DeleteAdmin(ctx context.Context, in commands.DeleteAdminInput) error
	ToggleAdmin(ctx context.Context, in commands.ToggleAdminStatusInput) error
	UpdateProfile(ctx context.Context, in commands.UpdateProfileInput) error
	Refresh(ctx context.Context, in commands.RefreshInput) error
}

// CommandExecutor adapts go-command commanders to Executor.
type CommandExecutor struct {
	CreateEventCommander   gocommand.Commander[dashboard.EventInput]
	UpdateEventCommander   gocommand.Commander[commands.UpdateEventInput]
	CreateTicketCommander  gocommand.Commander[dashboard.TicketInput]
	UpdateTicketCommander  gocommand.Commander[commands.UpdateTicketInput]
	DeleteTicketCommander  gocommand.Commander[commands.DeleteTicketInput]
	CreateAdminCommander   gocommand.Commander[dashboard.AdminInput]
	UpdateAdminCommander   gocommand.Commander[commands.UpdateAdminInput]
	DeleteAdminCommander   gocommand.Commander[commands.DeleteAdminInput]
	ToggleAdminCommander   gocommand.Commander[commands.ToggleAdminStatusInput]
	UpdateProfileCommander gocommand.Commander[commands.UpdateProfileInput]
	RefreshCommander       gocommand.Commander[commands.RefreshInput]
}

var _ Executor = (*CommandExecutor)(nil)

func run[T any](ctx context.Context, c gocommand.Commander[T], msg T) error {
	if c == nil {
		return ErrCommandNotConfigured
	}
	return c.Execute(ctx, msg)
}

func (e *CommandExecutor) CreateEvent(ctx context.Context, in dashboard.EventInput) error {
	return run(ctx, e.CreateEventCommander, in)
}

func (e *CommandExecutor) UpdateEvent(ctx context.Context, in commands.UpdateEventInput) error {
	return run(ctx, e.UpdateEventCommander, in)
}

func (e *CommandExecutor) CreateTicket(ctx context.Context, in dashboard.TicketInput) error {
	return run(ctx, e.CreateTicketCommander, in)
}

func (e *CommandExecutor) UpdateTicket(ctx context.Context, in commands.UpdateTicketInput) error {
	return run(ctx, e.UpdateTicketCommander, in)
}

func (e *CommandExecutor) DeleteTicket(ctx context.Context, in commands.DeleteTicketInput) error {
	return run(ctx, e.DeleteTicketCommander, in)
}

func (e *CommandExecutor) CreateAdmin(ctx context.Context, in dashboard.AdminInput) error {
	return run(ctx, e.CreateAdminCommander, in)
}

func (e *CommandExecutor) UpdateAdmin(ctx context.Context, in commands.UpdateAdminInput) error {
	return run(ctx, e.UpdateAdminCommander, in)
}

func (e *CommandExecutor) DeleteAdmin(ctx context.Context, in commands.DeleteAdminInput) error {
	return run(ctx, e.DeleteAdminCommander, in)
}

func (e *CommandExecutor) ToggleAdmin(ctx context.Context, in commands.ToggleAdminStatusInput) error {
	return run(ctx, e.ToggleAdminCommander, in)
}

func (e *CommandExecutor) UpdateProfile(ctx context.Context, in commands.UpdateProfileInput) error {
	return run(ctx, e.UpdateProfileCommander, in)
}

func (e *CommandExecutor) Refresh(ctx context.Context, in commands.RefreshInput) error {
	return run(ctx, e.RefreshCommander, in)
}
