package dashboard

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/pkg/config"
	"github.com/goliatone/go-ticketdash/pkg/export"
	"github.com/goliatone/go-ticketdash/pkg/session"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		Backend:   config.Backend{BaseURL: baseURL, Timeout: time.Second, TicketConcurrency: 2},
		Session:   config.Session{Driver: config.DriverMemory},
		Assistant: config.Assistant{RPS: 10},
		Charts:    config.Charts{Theme: "light"},
		Log:       config.Log{Level: "debug", Format: "json"},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeBackend struct {
	ticketPosts atomic.Int32
	eventLists  atomic.Int32
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/auth/login/admin/":
		_, _ = io.WriteString(w, `{"token":"tok","expiration":"2099-01-01T00:00:00Z","administrateur":{"id_admin":7,"prenom":"Léa","nom":"Martin","email":"lea@x.fr","role":"superadmin"}}`)
		return
	case r.Header.Get("Authorization") != "Bearer tok":
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Token manquant"}`)
		return
	}
	switch r.URL.Path {
	case "/api/evenements/":
		f.eventLists.Add(1)
		_, _ = io.WriteString(w, `{"results":[{"id_evenement":1,"titre_evenement":"Jazz","date":"2024-07-01","lieu":"Paris"}]}`)
	case "/api/evenements/1/tickets/":
		_, _ = io.WriteString(w, `{"tickets":[{"id_ticket":10,"type":"VIP","prix":"25","stock":40}]}`)
	case "/api/tickets/":
		f.ticketPosts.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestApp(t *testing.T) (*App, *fakeBackend) {
	t.Helper()
	return newTestAppAt(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
}

func newTestAppAt(t *testing.T, now time.Time) (*App, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	app, err := New(Options{
		Config: testConfig(server.URL + "/api"),
		Logger: quietLogger(),
		Clock:  func() time.Time { return now },
	})
	require.NoError(t, err)
	return app, backend
}

func TestNewStoreSelectsDriver(t *testing.T) {
	cfg := config.Config{Session: config.Session{Driver: config.DriverMemory}}
	store, err := NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryStore{}, store)

	cfg.Session = config.Session{Driver: config.DriverFile, Path: filepath.Join(t.TempDir(), "session.yaml")}
	store, err = NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &session.FileStore{}, store)

	cfg.Session = config.Session{Driver: config.DriverRedis}
	cfg.Redis = config.Redis{Addr: "localhost:6379", Prefix: "test:session"}
	store, err = NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &session.RedisStore{}, store)

	cfg.Session = config.Session{Driver: "etcd"}
	_, err = NewStore(cfg)
	require.Error(t, err)
}

func TestNewRejectsMissingBackend(t *testing.T) {
	cfg := testConfig("")
	_, err := New(Options{Config: cfg, Logger: quietLogger()})
	require.Error(t, err)
}

func TestAppLoginAuthorizesBackendCalls(t *testing.T) {
	app, backend := newTestApp(t)
	ctx := context.Background()

	state, err := app.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, state.Authenticated)

	_, err = app.Service.Events(ctx)
	require.Error(t, err)

	profile, err := app.Session.Login(ctx, "lea@x.fr", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Léa Martin", profile.DisplayName())

	require.NoError(t, app.Service.Invalidate(ctx, core.ResourceEvents))
	events, err := app.Service.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Jazz", events[0].Title)
	assert.Equal(t, int32(1), backend.eventLists.Load())
}

func TestAppCommandInvalidatesAndBroadcasts(t *testing.T) {
	app, backend := newTestApp(t)
	ctx := context.Background()
	_, err := app.Session.Login(ctx, "lea@x.fr", "secret")
	require.NoError(t, err)

	events, cancel := app.Broadcast.Subscribe()
	defer cancel()

	err = app.Executor.CreateTicket(ctx, core.TicketInput{EventID: 1, Name: "Standard", Price: 10, Stock: 100})
	require.NoError(t, err)
	assert.Equal(t, int32(1), backend.ticketPosts.Load())
	assert.Equal(t, int32(1), backend.eventLists.Load())

	select {
	case evt := <-events:
		assert.Equal(t, core.ResourceEvents, evt.Resource)
		assert.Empty(t, evt.Error)
	case <-time.After(time.Second):
		t.Fatal("expected invalidation event")
	}

	recent, err := app.Activity.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "ticket", recent[0].ObjectType)
}

func TestAppForwardsTelemetry(t *testing.T) {
	server := httptest.NewServer(&fakeBackend{})
	t.Cleanup(server.Close)

	var mu sync.Mutex
	var recorded []string
	telemetry := core.TelemetryFunc(func(_ context.Context, event string, _ map[string]any) {
		mu.Lock()
		defer mu.Unlock()
		recorded = append(recorded, event)
	})
	app, err := New(Options{
		Config:    testConfig(server.URL + "/api"),
		Logger:    quietLogger(),
		Telemetry: telemetry,
	})
	require.NoError(t, err)
	ctx := context.Background()
	_, err = app.Session.Login(ctx, "lea@x.fr", "secret")
	require.NoError(t, err)

	require.NoError(t, app.Executor.CreateTicket(ctx, core.TicketInput{EventID: 1, Name: "VIP", Price: 50, Stock: 20}))

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, recorded, "dashboard.ticket.created")
	assert.Contains(t, recorded, core.TelemetryInvalidate)
}

func TestAppRejectsInvalidCommandPayload(t *testing.T) {
	app, backend := newTestApp(t)
	err := app.Executor.CreateTicket(context.Background(), core.TicketInput{EventID: 1, Price: -1})
	require.Error(t, err)
	assert.Zero(t, backend.ticketPosts.Load())
}

func TestAppExportsStatisticsReport(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	_, err := app.Session.Login(ctx, "lea@x.fr", "secret")
	require.NoError(t, err)

	file, err := app.Exporter.Build(ctx, export.Request{Report: export.ReportStatistics, Format: export.FormatPDF})
	require.NoError(t, err)
	assert.Equal(t, "rapport_statistiques_2024-06-15.pdf", file.Name)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestAppRendersDashboardPage(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	_, err := app.Session.Login(ctx, "lea@x.fr", "secret")
	require.NoError(t, err)

	profile, ok := app.Session.Profile(ctx)
	require.True(t, ok)

	var buf bytes.Buffer
	err = app.Controller.RenderTemplate(ctx, core.PageRequest{Page: core.PageDashboard, Profile: profile}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Bonjour Léa Martin")
}

func TestAppRendersFromAnyWorkingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())
	app, _ := newTestApp(t)
	ctx := context.Background()
	_, err := app.Session.Login(ctx, "lea@x.fr", "secret")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = app.Controller.RenderTemplate(ctx, core.PageRequest{Page: core.PageStatistics}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Jazz")
}

func TestHandlerRejectsExpiredSession(t *testing.T) {
	app, _ := newTestAppAt(t, time.Date(2099, 1, 2, 0, 0, 0, 0, time.UTC))
	_, err := app.Session.Login(context.Background(), "lea@x.fr", "secret")
	require.NoError(t, err)
	require.True(t, app.Session.Expired())

	server := httptest.NewServer(app.Handler(""))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/events")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), session.ErrExpired.Error())
}

func TestHandlerServesPagesAndCommands(t *testing.T) {
	app, backend := newTestApp(t)
	ctx := context.Background()
	_, err := app.Session.Login(ctx, "lea@x.fr", "secret")
	require.NoError(t, err)

	server := httptest.NewServer(app.Handler("/admin"))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/admin/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Bonjour Léa Martin")

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/admin/events", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(server.URL + "/admin/nowhere")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(server.URL+"/admin/api/tickets", "application/json",
		bytes.NewBufferString(`{"event_id":1,"name":"Standard","price":10,"stock":100}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int32(1), backend.ticketPosts.Load())

	recent, err := app.Activity.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "7", recent[0].ActorID)
}
