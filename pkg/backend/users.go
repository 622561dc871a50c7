package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

var errMissingAdminID = errors.New("backend: administrator id is required")

// ListClients fetches the clients and maps them to view models.
func (c *HTTPClient) ListClients(ctx context.Context) ([]dashboard.Client, error) {
	var list struct {
		Results []clientRecord `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "utilisateurs/", nil, &list); err != nil {
		return nil, err
	}
	now := c.now()
	clients := make([]dashboard.Client, 0, len(list.Results))
	for _, rec := range list.Results {
		clients = append(clients, c.mapClient(rec, now))
	}
	return clients, nil
}

// ListAdmins walks every page of administrators.
func (c *HTTPClient) ListAdmins(ctx context.Context) ([]dashboard.User, error) {
	records, err := listAll[adminRecord](ctx, c, "administrateurs/")
	if err != nil {
		return nil, err
	}
	users := make([]dashboard.User, 0, len(records))
	for _, rec := range records {
		users = append(users, mapUser(rec))
	}
	return users, nil
}

// Admin fetches a single administrator profile.
func (c *HTTPClient) Admin(ctx context.Context, id int) (dashboard.AdminProfile, error) {
	if id <= 0 {
		return dashboard.AdminProfile{}, errMissingAdminID
	}
	var rec adminRecord
	if err := c.doJSON(ctx, http.MethodGet, adminPath(id), nil, &rec); err != nil {
		return dashboard.AdminProfile{}, err
	}
	return c.mapProfile(rec), nil
}

type adminPayload struct {
	LastName             string `json:"nom"`
	FirstName            string `json:"prenom"`
	Email                string `json:"email"`
	Password             string `json:"mot_de_passe,omitempty"`
	PasswordConfirmation string `json:"mot_de_passe_confirmation,omitempty"`
	Role                 string `json:"role"`
}

// CreateAdmin registers an administrator.
func (c *HTTPClient) CreateAdmin(ctx context.Context, in dashboard.AdminInput) error {
	return c.doJSON(ctx, http.MethodPost, "administrateurs/", adminPayload{
		LastName:             in.LastName,
		FirstName:            in.FirstName,
		Email:                in.Email,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
		Role:                 in.Role,
	}, nil)
}

// UpdateAdmin replaces identity and role. Passwords are never sent.
func (c *HTTPClient) UpdateAdmin(ctx context.Context, id int, in dashboard.AdminInput) error {
	if id <= 0 {
		return errMissingAdminID
	}
	return c.doJSON(ctx, http.MethodPut, adminPath(id), adminPayload{
		LastName:  in.LastName,
		FirstName: in.FirstName,
		Email:     in.Email,
		Role:      in.Role,
	}, nil)
}

// DeleteAdmin removes an administrator.
func (c *HTTPClient) DeleteAdmin(ctx context.Context, id int) error {
	if id <= 0 {
		return errMissingAdminID
	}
	return c.doJSON(ctx, http.MethodDelete, adminPath(id), nil, nil)
}

// SetAdminActive activates or deactivates an administrator.
func (c *HTTPClient) SetAdminActive(ctx context.Context, id int, active bool) error {
	if id <= 0 {
		return errMissingAdminID
	}
	action := "desactiver/"
	if active {
		action = "activer/"
	}
	return c.doJSON(ctx, http.MethodPost, adminPath(id)+action, nil, nil)
}

// UpdateProfile patches the administrator profile, optionally with a photo,
// and returns the stored profile.
func (c *HTTPClient) UpdateProfile(ctx context.Context, id int, in dashboard.ProfileInput) (dashboard.AdminProfile, error) {
	if id <= 0 {
		return dashboard.AdminProfile{}, errMissingAdminID
	}
	form := &multipartForm{}
	form.set("nom", in.LastName)
	form.set("prenom", in.FirstName)
	form.set("email", in.Email)
	if !in.Photo.Empty() {
		form.attach("photo", in.Photo.Filename, in.Photo.Content)
	}
	var rec adminRecord
	if err := c.doMultipart(ctx, http.MethodPatch, adminPath(id), form, &rec); err != nil {
		return dashboard.AdminProfile{}, err
	}
	if rec.ID == "" {
		rec.ID = identifier(itoa(id))
	}
	return c.mapProfile(rec), nil
}

func adminPath(id int) string {
	return "administrateurs/" + itoa(id) + "/"
}
