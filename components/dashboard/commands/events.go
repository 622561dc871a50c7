package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-ticketdash/components/dashboard"
)

type eventWriter interface {
	CreateEvent(ctx context.Context, in dashboard.EventInput) (string, error)
	UpdateEvent(ctx context.Context, id string, in dashboard.EventInput) error
}

// UpdateEventInput targets an existing event.
type UpdateEventInput struct {
	ID    string               `json:"id"`
	Event dashboard.EventInput `json:"event"`
}

// CreateEventCommand posts a new event with its cover image.
type CreateEventCommand struct {
	base
	events eventWriter
}

// NewCreateEventCommand creates the command.
func NewCreateEventCommand(events eventWriter, opts Options) *CreateEventCommand {
	return &CreateEventCommand{base: newBase(opts), events: events}
}

var _ gocommand.Commander[dashboard.EventInput] = (*CreateEventCommand)(nil)

// Execute validates the event, requires an image and creates it.
func (c *CreateEventCommand) Execute(ctx context.Context, msg dashboard.EventInput) error {
	if c.events == nil {
		return errors.New("create event command requires backend")
	}
	if err := c.validator.Validate(dashboard.SchemaEvent, msg); err != nil {
		return err
	}
	if msg.Image.Empty() {
		return dashboard.ErrImageRequired
	}
	id, err := c.events.CreateEvent(ctx, msg)
	if err != nil {
		return err
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceEvents,
		verb:       "created",
		objectType: "event",
		objectID:   id,
		metadata:   map[string]any{"title": msg.Title},
	})
}

// UpdateEventCommand edits an event. The image is optional.
type UpdateEventCommand struct {
	base
	events eventWriter
}

// NewUpdateEventCommand creates the command.
func NewUpdateEventCommand(events eventWriter, opts Options) *UpdateEventCommand {
	return &UpdateEventCommand{base: newBase(opts), events: events}
}

var _ gocommand.Commander[UpdateEventInput] = (*UpdateEventCommand)(nil)

// Execute validates and updates the event.
func (c *UpdateEventCommand) Execute(ctx context.Context, msg UpdateEventInput) error {
	if c.events == nil {
		return errors.New("update event command requires backend")
	}
	if msg.ID == "" {
		return errors.New("update event command requires event id")
	}
	if err := c.validator.Validate(dashboard.SchemaEvent, msg.Event); err != nil {
		return err
	}
	if err := c.events.UpdateEvent(ctx, msg.ID, msg.Event); err != nil {
		return err
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceEvents,
		verb:       "updated",
		objectType: "event",
		objectID:   msg.ID,
		metadata:   map[string]any{"title": msg.Event.Title},
	})
}
