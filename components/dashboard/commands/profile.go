package commands

import (
	"context"
	"errors"
	"strconv"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-ticketdash/components/dashboard"
)

type profileWriter interface {
	UpdateProfile(ctx context.Context, id int, in dashboard.ProfileInput) (dashboard.AdminProfile, error)
}

// ProfileSink receives the refreshed profile, typically the session manager.
type ProfileSink interface {
	SetProfile(ctx context.Context, profile dashboard.AdminProfile) error
}

// UpdateProfileInput targets the signed-in administrator.
type UpdateProfileInput struct {
	ID      int                    `json:"id"`
	Profile dashboard.ProfileInput `json:"profile"`
}

// UpdateProfileCommand patches the administrator profile and photo.
type UpdateProfileCommand struct {
	base
	profiles profileWriter
	sink     ProfileSink
}

// NewUpdateProfileCommand creates the command. sink may be nil.
func NewUpdateProfileCommand(profiles profileWriter, sink ProfileSink, opts Options) *UpdateProfileCommand {
	return &UpdateProfileCommand{base: newBase(opts), profiles: profiles, sink: sink}
}

var _ gocommand.Commander[UpdateProfileInput] = (*UpdateProfileCommand)(nil)

// Execute validates, patches and stores the updated profile.
func (c *UpdateProfileCommand) Execute(ctx context.Context, msg UpdateProfileInput) error {
	if c.profiles == nil {
		return errors.New("update profile command requires backend")
	}
	if msg.ID <= 0 {
		return errMissingAdminID
	}
	if err := c.validator.Validate(dashboard.SchemaProfile, msg.Profile); err != nil {
		return err
	}
	profile, err := c.profiles.UpdateProfile(ctx, msg.ID, msg.Profile)
	if err != nil {
		return err
	}
	if c.sink != nil {
		if err := c.sink.SetProfile(ctx, profile); err != nil {
			return err
		}
	}
	return c.completed(ctx, mutation{
		resource:   dashboard.ResourceProfile,
		verb:       "updated",
		objectType: "profile",
		objectID:   strconv.Itoa(msg.ID),
		metadata:   map[string]any{"photo": !msg.Profile.Photo.Empty()},
	})
}
