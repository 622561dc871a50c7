package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

// ErrInvalidCredentials is returned when the backend rejects a login.
var ErrInvalidCredentials = errors.New("backend: invalid credentials")

// Grant is the outcome of a successful login.
type Grant struct {
	Token      string
	Expiration time.Time
	Admin      dashboard.AdminProfile
}

type loginResponse struct {
	Token      string      `json:"token"`
	Expiration string      `json:"expiration"`
	Admin      adminRecord `json:"administrateur"`
}

// Login exchanges credentials for a bearer token. It never sends the stored
// token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (Grant, error) {
	anon := *c
	anon.tokens = nil
	var resp loginResponse
	err := anon.doJSON(ctx, http.MethodPost, "auth/login/admin/", map[string]string{
		"email":        strings.TrimSpace(email),
		"mot_de_passe": password,
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			return Grant{}, errors.Join(ErrInvalidCredentials, err)
		}
		return Grant{}, err
	}
	if resp.Token == "" {
		return Grant{}, ErrInvalidCredentials
	}
	grant := Grant{Token: resp.Token, Admin: c.mapProfile(resp.Admin)}
	if resp.Expiration != "" {
		if t, err := time.Parse(time.RFC3339, resp.Expiration); err == nil {
			grant.Expiration = t
		} else if t, err := time.Parse("2006-01-02T15:04:05.999999", resp.Expiration); err == nil {
			grant.Expiration = t
		}
	}
	return grant, nil
}
