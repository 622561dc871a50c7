package commands

import (
	"context"
	"errors"
	"strconv"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-ticketdash/components/dashboard"
)

type adminWriter interface {
	CreateAdmin(ctx context.Context, in dashboard.AdminInput) error
	UpdateAdmin(ctx context.Context, id int, in dashboard.AdminInput) error
	DeleteAdmin(ctx context.Context, id int) error
	SetAdminActive(ctx context.Context, id int, active bool) error
}

// UpdateAdminInput targets an existing administrator.
type UpdateAdminInput struct {
	ID    int                  `json:"id"`
	Admin dashboard.AdminInput `json:"admin"`
}

// DeleteAdminInput identifies the administrator to remove.
type DeleteAdminInput struct {
	ID int `json:"id"`
}

// ToggleAdminStatusInput activates or deactivates an administrator.
type ToggleAdminStatusInput struct {
	ID     int  `json:"id"`
	Active bool `json:"active"`
}

var errMissingAdminID = errors.New("admin command requires administrator id")

// CreateAdminCommand creates an administrator account.
type CreateAdminCommand struct {
	base
	admins adminWriter
}

// NewCreateAdminCommand creates the command.
func NewCreateAdminCommand(admins adminWriter, opts Options) *CreateAdminCommand {
	return &CreateAdminCommand{base: newBase(opts), admins: admins}
}

var _ gocommand.Commander[dashboard.AdminInput] = (*CreateAdminCommand)(nil)

// Execute checks the password confirmation, validates and creates the account.
func (c *CreateAdminCommand) Execute(ctx context.Context, msg dashboard.AdminInput) error {
	if c.admins == nil {
		return errors.New("create admin command requires backend")
	}
	if err := msg.CheckPasswords(true); err != nil {
		return err
	}
	if err := c.validator.Validate(dashboard.SchemaAdmin, msg); err != nil {
		return err
	}
	if err := c.admins.CreateAdmin(ctx, msg); err != nil {
		return err
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceUsers,
		verb:       "created",
		objectType: "admin",
		objectID:   msg.Email,
		metadata:   map[string]any{"role": msg.Role},
	})
}

// UpdateAdminCommand edits an administrator. Passwords are not changed here.
type UpdateAdminCommand struct {
	base
	admins adminWriter
}

// NewUpdateAdminCommand creates the command.
func NewUpdateAdminCommand(admins adminWriter, opts Options) *UpdateAdminCommand {
	return &UpdateAdminCommand{base: newBase(opts), admins: admins}
}

var _ gocommand.Commander[UpdateAdminInput] = (*UpdateAdminCommand)(nil)

// Execute validates and updates the account.
func (c *UpdateAdminCommand) Execute(ctx context.Context, msg UpdateAdminInput) error {
	if c.admins == nil {
		return errors.New("update admin command requires backend")
	}
	if msg.ID <= 0 {
		return errMissingAdminID
	}
	msg.Admin.Password = ""
	msg.Admin.PasswordConfirmation = ""
	if err := c.validator.Validate(dashboard.SchemaAdmin, msg.Admin); err != nil {
		return err
	}
	if err := c.admins.UpdateAdmin(ctx, msg.ID, msg.Admin); err != nil {
		return err
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceUsers,
		verb:       "updated",
		objectType: "admin",
		objectID:   strconv.Itoa(msg.ID),
		metadata:   map[string]any{"role": msg.Admin.Role},
	})
}

// DeleteAdminCommand removes an administrator.
type DeleteAdminCommand struct {
	base
	admins adminWriter
}

// NewDeleteAdminCommand creates the command.
func NewDeleteAdminCommand(admins adminWriter, opts Options) *DeleteAdminCommand {
	return &DeleteAdminCommand{base: newBase(opts), admins: admins}
}

var _ gocommand.Commander[DeleteAdminInput] = (*DeleteAdminCommand)(nil)

// Execute deletes the account.
func (c *DeleteAdminCommand) Execute(ctx context.Context, msg DeleteAdminInput) error {
	if c.admins == nil {
		return errors.New("delete admin command requires backend")
	}
	if msg.ID <= 0 {
		return errMissingAdminID
	}
	if err := c.admins.DeleteAdmin(ctx, msg.ID); err != nil {
		return err
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceUsers,
		verb:       "deleted",
		objectType: "admin",
		objectID:   strconv.Itoa(msg.ID),
	})
}

// ToggleAdminStatusCommand activates or deactivates an administrator.
type ToggleAdminStatusCommand struct {
	base
	admins adminWriter
}

// NewToggleAdminStatusCommand creates the command.
func NewToggleAdminStatusCommand(admins adminWriter, opts Options) *ToggleAdminStatusCommand {
	return &ToggleAdminStatusCommand{base: newBase(opts), admins: admins}
}

var _ gocommand.Commander[ToggleAdminStatusInput] = (*ToggleAdminStatusCommand)(nil)

// Execute flips the account status.
func (c *ToggleAdminStatusCommand) Execute(ctx context.Context, msg ToggleAdminStatusInput) error {
	if c.admins == nil {
		return errors.New("toggle admin command requires backend")
	}
	if msg.ID <= 0 {
		return errMissingAdminID
	}
	if err := c.admins.SetAdminActive(ctx, msg.ID, msg.Active); err != nil {
		return err
	}
	verb := "deactivated"
	if msg.Active {
		verb = "activated"
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceUsers,
		verb:       verb,
		objectType: "admin",
		objectID:   strconv.Itoa(msg.ID),
	})
}
