package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/pkg/backend"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type stubAuth struct {
	grant backend.Grant
	err   error
}

func (s stubAuth) Login(context.Context, string, string) (backend.Grant, error) {
	return s.grant, s.err
}

type stubProfiles struct {
	profile dashboard.AdminProfile
	err     error
	calls   int
}

func (s *stubProfiles) Admin(_ context.Context, id int) (dashboard.AdminProfile, error) {
	s.calls++
	if s.err != nil {
		return dashboard.AdminProfile{}, s.err
	}
	p := s.profile
	p.ID = id
	return p, nil
}

func grant() backend.Grant {
	return backend.Grant{
		Token:      "tok",
		Expiration: fixedNow.Add(time.Hour),
		Admin:      dashboard.AdminProfile{ID: 3, FirstName: "Léa", LastName: "Martin", Email: "lea@x.fr", Role: "superadmin"},
	}
}

func TestLoginPersistsEveryKey(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(Options{Store: store, Auth: stubAuth{grant: grant()}, Clock: func() time.Time { return fixedNow }})

	profile, err := m.Login(context.Background(), "lea@x.fr", "pw")
	require.NoError(t, err)
	assert.Equal(t, 3, profile.ID)

	values, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "true", values[KeyAuthenticated])
	assert.Equal(t, "tok", values[KeyToken])
	assert.Equal(t, "2024-06-15T13:00:00Z", values[KeyTokenExpiration])
	assert.JSONEq(t, `{"id_admin":3,"prenom":"Léa","nom":"Martin","email":"lea@x.fr","role":"superadmin"}`, values[KeyAdmin])

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.False(t, m.Expired())
}

func TestLoginFailureLeavesSessionSignedOut(t *testing.T) {
	m := NewManager(Options{Auth: stubAuth{err: backend.ErrInvalidCredentials}})
	_, err := m.Login(context.Background(), "lea@x.fr", "bad")
	require.ErrorIs(t, err, backend.ErrInvalidCredentials)
	_, ok := m.Profile(context.Background())
	assert.False(t, ok)
	assert.True(t, m.Expired())
}

func TestLogoutClearsStore(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(Options{Store: store, Auth: stubAuth{grant: grant()}})
	_, err := m.Login(context.Background(), "lea@x.fr", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background()))
	values, _ := store.Load(context.Background())
	assert.Empty(t, values)
	token, _ := m.Token(context.Background())
	assert.Empty(t, token)
}

func TestRestoreRefreshesProfile(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), map[string]string{
		KeyAuthenticated: "true",
		KeyToken:         "tok",
		KeyAdmin:         `{"id_admin":3,"prenom":"Old"}`,
	}))
	profiles := &stubProfiles{profile: dashboard.AdminProfile{FirstName: "New", Role: "admin"}}
	m := NewManager(Options{Store: store, Profiles: profiles})

	state, err := m.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, state.Authenticated)
	assert.Equal(t, "New", state.Admin.FirstName)
	assert.Equal(t, 1, profiles.calls)

	values, _ := store.Load(context.Background())
	assert.Contains(t, values[KeyAdmin], `"prenom":"New"`)
}

func TestRestoreKeepsSessionWhenProfileFails(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), map[string]string{
		KeyAuthenticated: "true",
		KeyToken:         "tok",
		KeyAdmin:         `{"id_admin":3,"prenom":"Old"}`,
	}))
	m := NewManager(Options{Store: store, Profiles: &stubProfiles{err: errors.New("boom")}, Logger: logger})

	state, err := m.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, state.Authenticated)
	assert.Equal(t, "Old", state.Admin.FirstName)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRestoreIgnoresCorruptValues(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), map[string]string{
		KeyAuthenticated: "yes please",
		KeyToken:         "tok",
	}))
	profiles := &stubProfiles{}
	m := NewManager(Options{Store: store, Profiles: profiles})
	state, err := m.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Authenticated)
	assert.Zero(t, profiles.calls)
}

func TestRestoreTrustsAuthenticatedFlag(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), map[string]string{
		KeyAuthenticated: "true",
		KeyAdmin:         `{"id_admin":3,"prenom":"Léa","nom":"Martin"}`,
	}))
	m := NewManager(Options{Store: store})
	state, err := m.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, state.Authenticated)
	assert.Equal(t, 3, state.Admin.ID)

	token, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.False(t, m.Expired())

	profile, ok := m.Profile(context.Background())
	require.True(t, ok)
	assert.Equal(t, "Léa Martin", profile.DisplayName())
}

func TestSetProfileRequiresLogin(t *testing.T) {
	m := NewManager(Options{})
	require.ErrorIs(t, m.SetProfile(context.Background(), dashboard.AdminProfile{ID: 1}), ErrNotAuthenticated)

	m.SetAuthenticator(stubAuth{grant: grant()})
	_, err := m.Login(context.Background(), "lea@x.fr", "pw")
	require.NoError(t, err)
	require.NoError(t, m.SetProfile(context.Background(), dashboard.AdminProfile{ID: 3, FirstName: "Léa", Photo: "https://cdn/x.png"}))
	profile, ok := m.Profile(context.Background())
	require.True(t, ok)
	assert.Equal(t, "https://cdn/x.png", profile.Photo)
}

func TestExpiredFallsBackToJWTClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": fixedNow.Add(-time.Minute).Unix(),
	}).SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	g := grant()
	g.Token = signed
	g.Expiration = time.Time{}
	m := NewManager(Options{Auth: stubAuth{grant: g}, Clock: func() time.Time { return fixedNow }})
	_, err = m.Login(context.Background(), "lea@x.fr", "pw")
	require.NoError(t, err)
	assert.True(t, m.Expired())

	g.Token = "opaque-token"
	m = NewManager(Options{Auth: stubAuth{grant: g}, Clock: func() time.Time { return fixedNow }})
	_, err = m.Login(context.Background(), "lea@x.fr", "pw")
	require.NoError(t, err)
	assert.False(t, m.Expired())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileStore(path)
	ctx := context.Background()

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, store.Save(ctx, map[string]string{KeyAuthenticated: "true", KeyToken: "tok"}))
	values, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", values[KeyToken])

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	values, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRedisStore(t *testing.T) {
	fake := newFakeRedis()
	store := NewRedisStore(fake, RedisOptions{TTL: time.Hour})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]string{KeyAuthenticated: "true", KeyToken: "tok"}))
	assert.Equal(t, time.Hour, fake.ttl[DefaultRedisKey])

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyAuthenticated: "true", KeyToken: "tok"}, values)

	require.NoError(t, store.Clear(ctx))
	values, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)

	fake.err = errors.New("connection refused")
	_, err = store.Load(ctx)
	require.ErrorContains(t, err, "connection refused")
}

type fakeRedis struct {
	hashes map[string]map[string]string
	ttl    map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{hashes: map[string]map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	cmd := redis.NewMapStringStringCmd(ctx, "hgetall", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	out := map[string]string{}
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	cmd.SetVal(out)
	return cmd
}

func (f *fakeRedis) HSet(ctx context.Context, key string, values ...any) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "hset", key)
	if f.hashes[key] == nil {
		f.hashes[key] = map[string]string{}
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.hashes[key][values[i].(string)] = values[i+1].(string)
	}
	cmd.SetVal(int64(len(values) / 2))
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	for _, k := range keys {
		delete(f.hashes, k)
		delete(f.ttl, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key)
	f.ttl[key] = expiration
	cmd.SetVal(true)
	return cmd
}
