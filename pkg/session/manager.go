package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/pkg/backend"
)

var (
	// ErrNotAuthenticated is returned by operations that need a signed-in admin.
	ErrNotAuthenticated = errors.New("session: not authenticated")
	// ErrExpired is returned when the signed-in admin's token has lapsed.
	ErrExpired          = errors.New("session: expired, sign in again")
)

// Authenticator exchanges credentials for a grant.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (backend.Grant, error)
}

// ProfileFetcher reloads the administrator profile.
type ProfileFetcher interface {
	Admin(ctx context.Context, id int) (dashboard.AdminProfile, error)
}

// State is the decoded session.
type State struct {
	Authenticated bool
	Token         string
	Expiration    time.Time
	Admin         dashboard.AdminProfile
}

// Options configures a Manager.
type Options struct {
	Store    Store
	Auth     Authenticator
	Profiles ProfileFetcher
	Logger   logrus.FieldLogger
	Clock    func() time.Time
}

// Manager owns the login state. It is the TokenSource of the backend client
// and the profile sink of the profile command.
type Manager struct {
	store    Store
	auth     Authenticator
	profiles ProfileFetcher
	log      logrus.FieldLogger
	now      func() time.Time

	mu    sync.RWMutex
	state State
}

var _ backend.TokenSource = (*Manager)(nil)

// NewManager builds an unauthenticated manager. Call Restore to load the
// persisted session.
func NewManager(opts Options) *Manager {
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		store:    store,
		auth:     opts.Auth,
		profiles: opts.Profiles,
		log:      logger.WithField("component", "session"),
		now:      clock,
	}
}

// SetProfileFetcher wires the profile source once the backend client exists.
func (m *Manager) SetProfileFetcher(p ProfileFetcher) {
	m.mu.Lock()
	m.profiles = p
	m.mu.Unlock()
}

// SetAuthenticator wires the login endpoint.
func (m *Manager) SetAuthenticator(a Authenticator) {
	m.mu.Lock()
	m.auth = a
	m.mu.Unlock()
}

// Login authenticates and persists the token and profile.
func (m *Manager) Login(ctx context.Context, email, password string) (dashboard.AdminProfile, error) {
	m.mu.RLock()
	auth := m.auth
	m.mu.RUnlock()
	if auth == nil {
		return dashboard.AdminProfile{}, errors.New("session: authenticator not configured")
	}
	grant, err := auth.Login(ctx, email, password)
	if err != nil {
		return dashboard.AdminProfile{}, fmt.Errorf("session: login: %w", err)
	}
	state := State{Authenticated: true, Token: grant.Token, Expiration: grant.Expiration, Admin: grant.Admin}
	if err := m.persist(ctx, state); err != nil {
		return dashboard.AdminProfile{}, err
	}
	m.log.WithField("admin_id", grant.Admin.ID).Info("administrator signed in")
	return grant.Admin, nil
}

// Logout clears every persisted key.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.state = State{}
	m.mu.Unlock()
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}

// Restore loads the persisted session. When authenticated it refreshes the
// profile; a refresh failure is logged and the session stays authenticated.
func (m *Manager) Restore(ctx context.Context) (State, error) {
	values, err := m.store.Load(ctx)
	if err != nil {
		return State{}, err
	}
	state := decode(values)
	m.mu.Lock()
	m.state = state
	profiles := m.profiles
	m.mu.Unlock()

	if !state.Authenticated || profiles == nil || state.Admin.ID <= 0 {
		return state, nil
	}
	profile, err := profiles.Admin(ctx, state.Admin.ID)
	if err != nil {
		m.log.WithError(err).WithField("admin_id", state.Admin.ID).Warn("profile refresh failed")
		return state, nil
	}
	state.Admin = profile
	if err := m.persist(ctx, state); err != nil {
		return State{}, err
	}
	return state, nil
}

// State returns the in-memory session.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Token returns the bearer token, empty when signed out.
func (m *Manager) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.state.Authenticated {
		return "", nil
	}
	return m.state.Token, nil
}

// Profile returns the signed-in administrator.
func (m *Manager) Profile(context.Context) (dashboard.AdminProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Admin, m.state.Authenticated
}

// SetProfile replaces the stored profile after a profile update.
func (m *Manager) SetProfile(ctx context.Context, profile dashboard.AdminProfile) error {
	m.mu.RLock()
	state := m.state
	m.mu.RUnlock()
	if !state.Authenticated {
		return ErrNotAuthenticated
	}
	state.Admin = profile
	return m.persist(ctx, state)
}

// Expired reports whether the token is past its expiration. The stored
// expiration wins over the JWT exp claim. Tokens without either never expire.
func (m *Manager) Expired() bool {
	state := m.State()
	if !state.Authenticated {
		return true
	}
	expiry := state.Expiration
	if expiry.IsZero() {
		expiry = tokenExpiry(state.Token)
	}
	if expiry.IsZero() {
		return false
	}
	return !m.now().Before(expiry)
}

// tokenExpiry reads the exp claim without verifying the signature.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (m *Manager) persist(ctx context.Context, state State) error {
	values, err := encode(state)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, values); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
	return nil
}

func encode(state State) (map[string]string, error) {
	admin, err := json.Marshal(state.Admin)
	if err != nil {
		return nil, fmt.Errorf("session: encode profile: %w", err)
	}
	values := map[string]string{
		KeyAuthenticated: strconv.FormatBool(state.Authenticated),
		KeyToken:         state.Token,
		KeyAdmin:         string(admin),
	}
	if !state.Expiration.IsZero() {
		values[KeyTokenExpiration] = state.Expiration.UTC().Format(time.RFC3339)
	}
	return values, nil
}

// decode tolerates partial or corrupt values. Only the authenticated flag
// decides whether the session is signed in; a missing token stays empty and
// backend calls are rejected upstream.
func decode(values map[string]string) State {
	state := State{Authenticated: values[KeyAuthenticated] == "true", Token: values[KeyToken]}
	if !state.Authenticated {
		return State{}
	}
	if raw := values[KeyTokenExpiration]; raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			state.Expiration = t
		}
	}
	if raw := values[KeyAdmin]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &state.Admin)
	}
	return state
}
