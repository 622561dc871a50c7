// Package dashboard assembles the ticketing dashboard from its configuration:
// session, REST backend, collections, commands, exports and the assistant.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	core "github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/components/dashboard/commands"
	"github.com/goliatone/go-ticketdash/components/dashboard/gorouter"
	"github.com/goliatone/go-ticketdash/components/dashboard/httpapi"
	"github.com/goliatone/go-ticketdash/pkg/activity"
	"github.com/goliatone/go-ticketdash/pkg/activity/usersink"
	"github.com/goliatone/go-ticketdash/pkg/assistant"
	"github.com/goliatone/go-ticketdash/pkg/backend"
	"github.com/goliatone/go-ticketdash/pkg/config"
	"github.com/goliatone/go-ticketdash/pkg/export"
	"github.com/goliatone/go-ticketdash/pkg/logging"
	"github.com/goliatone/go-ticketdash/pkg/session"
)

const recentActivityCapacity = 50

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options configures New. Store and HTTPClient override what the
// configuration would select.
type Options struct {
	Config     config.Config
	Logger     *logrus.Logger
	Store      session.Store
	HTTPClient *http.Client
	Templates  fs.FS
	Clock      func() time.Time
	// Telemetry receives service and command telemetry alongside the
	// debug log.
	Telemetry  core.Telemetry
}

// App holds every wired component.
type App struct {
	Config     config.Config
	Logger     *logrus.Logger
	Session    *session.Manager
	Backend    *backend.HTTPClient
	Service    *Service
	Controller *core.Controller
	Executor   *httpapi.CommandExecutor
	Exporter   *export.Exporter
	Assistant  *assistant.Client
	Broadcast  *core.BroadcastHook
	Activity   *activity.RecentFeed
}

// New builds the application. The persisted session is not restored; call
// Restore before serving requests.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return nil, err
		}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	store := opts.Store
	if store == nil {
		var err error
		if store, err = NewStore(cfg); err != nil {
			return nil, err
		}
	}
	manager := session.NewManager(session.Options{Store: store, Logger: logger, Clock: clock})

	client, err := backend.NewHTTPClient(backend.HTTPConfig{
		BaseURL:           cfg.Backend.BaseURL,
		Tokens:            manager,
		HTTPClient:        opts.HTTPClient,
		Timeout:           cfg.Backend.Timeout,
		TicketConcurrency: cfg.Backend.TicketConcurrency,
		Logger:            logger,
		Clock:             clock,
	})
	if err != nil {
		return nil, err
	}
	manager.SetAuthenticator(client)
	manager.SetProfileFetcher(client)

	fixtures, err := core.LoadFixtures(cfg.Fixtures)
	if err != nil {
		return nil, err
	}

	chartCache := core.NewChartCache(cfg.Charts.CacheTTL)
	registry := core.NewRegistry(
		core.WithChartCache(chartCache),
		core.WithChartTheme(core.ChartThemeFor(cfg.Charts.Theme)),
		core.WithChartThemeResolver(core.ViewerThemeResolver),
	)

	broadcast := core.NewBroadcastHook()
	feed := activity.NewRecentFeed(recentActivityCapacity)
	emitter := activity.NewEmitter(activity.Hooks{
		feed,
		usersink.Hook{Sink: logging.ActivitySink{Logger: logger}},
	}, activity.Config{Enabled: true})
	telemetry := core.Telemetries{logging.Telemetry{Logger: logger}, opts.Telemetry}

	service := core.NewService(backend.Options(client, core.Options{
		Accounts:   fixtures,
		Sales:      fixtures,
		Charts:     registry,
		ChartCache: chartCache,
		RefreshHook: core.RefreshHooks{
			broadcast,
			logging.RefreshLogger{Logger: logger},
		},
		Activity:  feed,
		Telemetry: telemetry,
		Clock:     clock,
	}))

	renderer, err := newRenderer(opts.Templates)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		Logger:     logger,
		Session:    manager,
		Backend:    client,
		Service:    service,
		Controller: core.NewController(core.ControllerOptions{Service: service, Renderer: renderer}),
		Executor: newExecutor(client, manager, service, commands.Options{
			Validator:   core.NewJSONSchemaValidator(),
			Invalidator: service,
			Activity:    emitter,
			Telemetry:   telemetry,
		}),
		Exporter: export.NewExporter(export.Options{Source: service}),
		Assistant: assistant.New(assistant.Config{
			APIKey:            cfg.Assistant.APIKey,
			Model:             cfg.Assistant.Model,
			RequestsPerSecond: cfg.Assistant.RPS,
			Logger:            logger,
		}),
		Broadcast: broadcast,
		Activity:  feed,
	}
	return app, nil
}

func newRenderer(templates fs.FS) (core.Renderer, error) {
	if templates != nil {
		return core.NewTemplateRenderer(templates)
	}
	return core.NewTemplateRenderer()
}

func newExecutor(client *backend.HTTPClient, sink commands.ProfileSink, service *Service, opts commands.Options) *httpapi.CommandExecutor {
	return &httpapi.CommandExecutor{
		CreateEventCommander:   commands.NewCreateEventCommand(client, opts),
		UpdateEventCommander:   commands.NewUpdateEventCommand(client, opts),
		CreateTicketCommander:  commands.NewCreateTicketCommand(client, opts),
		UpdateTicketCommander:  commands.NewUpdateTicketCommand(client, opts),
		DeleteTicketCommander:  commands.NewDeleteTicketCommand(client, opts),
		CreateAdminCommander:   commands.NewCreateAdminCommand(client, opts),
		UpdateAdminCommander:   commands.NewUpdateAdminCommand(client, opts),
		DeleteAdminCommander:   commands.NewDeleteAdminCommand(client, opts),
		ToggleAdminCommander:   commands.NewToggleAdminStatusCommand(client, opts),
		UpdateProfileCommander: commands.NewUpdateProfileCommand(client, sink, opts),
		RefreshCommander:       commands.NewRefreshCommand(service, opts.Telemetry),
	}
}

// NewStore selects the session store named by the configuration.
func NewStore(cfg config.Config) (session.Store, error) {
	switch cfg.Session.Driver {
	case config.DriverMemory:
		return session.NewMemoryStore(), nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return session.NewRedisStore(client, session.RedisOptions{Key: cfg.Redis.Prefix}), nil
	case config.DriverFile, "":
		path := cfg.Session.Path
		if path == "" {
			var err error
			if path, err = session.DefaultFilePath(); err != nil {
				return nil, err
			}
		}
		return session.NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("dashboard: unknown session driver %q", cfg.Session.Driver)
	}
}

// Restore loads the persisted session.
func (a *App) Restore(ctx context.Context) (session.State, error) {
	return a.Session.Restore(ctx)
}

// Mount registers the dashboard routes on r under basePath.
func Mount[T any](a *App, r router.Router[T], basePath string) error {
	return gorouter.Register(gorouter.Config[T]{
		Router:     r,
		Controller: a.Controller,
		API:        a.Executor,
		Exporter:   a.Exporter,
		Broadcast:  a.Broadcast,
		Status:     a.Service,
		Profiles:   a.Session,
		Expiry:     a.Session,
		BasePath:   basePath,
	})
}

// Serve mounts the dashboard on a fiber server and blocks until ctx is
// cancelled or the server fails.
func (a *App) Serve(ctx context.Context, basePath string) error {
	server := router.NewFiberAdapter()
	if err := Mount[*fiber.App](a, server.Router(), basePath); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(a.Config.Server.Addr)
	}()
	a.Logger.WithField("addr", a.Config.Server.Addr).Info("dashboard listening")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("dashboard: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
