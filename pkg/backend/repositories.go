package backend

import "github.com/goliatone/go-ticketdash/components/dashboard"

var (
	_ dashboard.EventRepository   = (*HTTPClient)(nil)
	_ dashboard.ClientRepository  = (*HTTPClient)(nil)
	_ dashboard.UserRepository    = (*HTTPClient)(nil)
	_ dashboard.ProfileRepository = (*HTTPClient)(nil)
)

// Options wires the REST client as the live collections of a dashboard
// service. Accounts and sales stay on base, typically fixtures.
func Options(client *HTTPClient, base dashboard.Options) dashboard.Options {
	base.Events = client
	base.Clients = client
	base.Users = client
	base.Profiles = client
	return base
}
