package commands

import (
	"context"
	"errors"
	"strconv"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-ticketdash/components/dashboard"
)

type ticketWriter interface {
	CreateTicket(ctx context.Context, in dashboard.TicketInput) error
	UpdateTicket(ctx context.Context, id string, in dashboard.TicketInput) error
	DeleteTicket(ctx context.Context, id string) error
}

// UpdateTicketInput targets an existing ticket type.
type UpdateTicketInput struct {
	ID     string                `json:"id"`
	Ticket dashboard.TicketInput `json:"ticket"`
}

// DeleteTicketInput identifies the ticket type to remove.
type DeleteTicketInput struct {
	ID string `json:"id"`
}

// CreateTicketCommand adds a ticket type to an event.
type CreateTicketCommand struct {
	base
	tickets ticketWriter
}

// NewCreateTicketCommand creates the command.
func NewCreateTicketCommand(tickets ticketWriter, opts Options) *CreateTicketCommand {
	return &CreateTicketCommand{base: newBase(opts), tickets: tickets}
}

var _ gocommand.Commander[dashboard.TicketInput] = (*CreateTicketCommand)(nil)

// Execute validates and creates the ticket type.
func (c *CreateTicketCommand) Execute(ctx context.Context, msg dashboard.TicketInput) error {
	if c.tickets == nil {
		return errors.New("create ticket command requires backend")
	}
	if err := c.validator.Validate(dashboard.SchemaTicket, msg); err != nil {
		return err
	}
	if err := c.tickets.CreateTicket(ctx, msg); err != nil {
		return err
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceEvents,
		verb:       "created",
		objectType: "ticket",
		objectID:   strconv.Itoa(msg.EventID),
		metadata:   map[string]any{"name": msg.Name, "price": msg.Price, "stock": msg.Stock},
	})
}

// UpdateTicketCommand edits a ticket type.
type UpdateTicketCommand struct {
	base
	tickets ticketWriter
}

// NewUpdateTicketCommand creates the command.
func NewUpdateTicketCommand(tickets ticketWriter, opts Options) *UpdateTicketCommand {
	return &UpdateTicketCommand{base: newBase(opts), tickets: tickets}
}

var _ gocommand.Commander[UpdateTicketInput] = (*UpdateTicketCommand)(nil)

// Execute validates and updates the ticket type.
func (c *UpdateTicketCommand) Execute(ctx context.Context, msg UpdateTicketInput) error {
	if c.tickets == nil {
		return errors.New("update ticket command requires backend")
	}
	if msg.ID == "" {
		return errors.New("update ticket command requires ticket id")
	}
	if err := c.validator.Validate(dashboard.SchemaTicket, msg.Ticket); err != nil {
		return err
	}
	if err := c.tickets.UpdateTicket(ctx, msg.ID, msg.Ticket); err != nil {
		return err
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceEvents,
		verb:       "updated",
		objectType: "ticket",
		objectID:   msg.ID,
		metadata:   map[string]any{"name": msg.Ticket.Name},
	})
}

// DeleteTicketCommand removes a ticket type.
type DeleteTicketCommand struct {
	base
	tickets ticketWriter
}

// NewDeleteTicketCommand creates the command.
func NewDeleteTicketCommand(tickets ticketWriter, opts Options) *DeleteTicketCommand {
	return &DeleteTicketCommand{base: newBase(opts), tickets: tickets}
}

var _ gocommand.Commander[DeleteTicketInput] = (*DeleteTicketCommand)(nil)

// Execute deletes the ticket type.
func (c *DeleteTicketCommand) Execute(ctx context.Context, msg DeleteTicketInput) error {
	if c.tickets == nil {
		return errors.New("delete ticket command requires backend")
	}
	if msg.ID == "" {
		return errors.New("delete ticket command requires ticket id")
	}
	if err := c.tickets.DeleteTicket(ctx, msg.ID); err != nil {
		return err
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceEvents,
		verb:       "deleted",
		objectType: "ticket",
		objectID:   msg.ID,
	})
}
