package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-ticketdash/pkg/activity"
)

const recentActivityLimit = 5

var (
	errMissingProfiles = errors.New("dashboard: profile repository not configured")
	errUnknownResource = errors.New("dashboard: unknown resource")
)

// ActivityFeed returns the latest administrator actions.
type ActivityFeed interface {
	Recent(ctx context.Context, limit int) ([]activity.Event, error)
}

// ChartPurger drops cached chart renders and reports how many were dropped.
type ChartPurger interface {
	Purge() int
}

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap the REST backend for fixtures or mocks.
type Options struct {
	Events      EventRepository
	Clients     ClientRepository
	Users       UserRepository
	Accounts    AccountRepository
	Sales       SalesRepository
	Profiles    ProfileRepository
	Charts      *Registry
	ChartCache  ChartPurger
	RefreshHook RefreshHook
	Activity    ActivityFeed
	Telemetry   Telemetry
	Clock       func() time.Time
}

// Service owns the fetched collections and builds every view from them.
type Service struct {
	opts     Options
	events   *Collection[Event]
	clients  *Collection[Client]
	users    *Collection[User]
	accounts *Collection[ClientAccount]
	sales    *Collection[SalesPoint]
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Charts == nil {
		opts.Charts = NewRegistry()
	}
	if opts.ChartCache == nil {
		opts.ChartCache = sharedChartCache
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	opts.Telemetry = telemetryOrDiscard(opts.Telemetry)

	s := &Service{opts: opts}
	s.events = NewCollection(ResourceEvents, func(ctx context.Context) ([]Event, error) {
		if opts.Events == nil {
			return nil, nil
		}
		return opts.Events.ListEvents(ctx)
	})
	s.clients = NewCollection(ResourceClients, func(ctx context.Context) ([]Client, error) {
		if opts.Clients == nil {
			return nil, nil
		}
		return opts.Clients.ListClients(ctx)
	})
	s.users = NewCollection(ResourceUsers, func(ctx context.Context) ([]User, error) {
		if opts.Users == nil {
			return nil, nil
		}
		return opts.Users.ListAdmins(ctx)
	})
	s.accounts = NewCollection(ResourceAccounts, func(ctx context.Context) ([]ClientAccount, error) {
		if opts.Accounts == nil {
			return nil, nil
		}
		return opts.Accounts.ListAccounts(ctx)
	})
	s.sales = NewCollection(ResourceSales, func(ctx context.Context) ([]SalesPoint, error) {
		if opts.Sales == nil {
			return nil, nil
		}
		return opts.Sales.SalesSeries(ctx)
	})
	return s
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.opts.Clock()
}

// Invalidate re-queries the resource and broadcasts the outcome. It is called
// by commands after a successful mutation.
func (s *Service) Invalidate(ctx context.Context, resource Resource) error {
	var err error
	switch resource {
	case ResourceEvents:
		err = s.events.Refresh(ctx)
	case ResourceClients:
		err = s.clients.Refresh(ctx)
	case ResourceUsers:
		err = s.users.Refresh(ctx)
	case ResourceAccounts:
		err = s.accounts.Refresh(ctx)
	case ResourceSales:
		err = s.sales.Refresh(ctx)
	case ResourceProfile:
	default:
		return fmt.Errorf("%w: %s", errUnknownResource, resource)
	}
	purged := s.opts.ChartCache.Purge()

	event := InvalidationEvent{Resource: resource, At: s.Now()}
	if err != nil {
		event.Error = err.Error()
	}
	if hookErr := s.opts.RefreshHook.Invalidated(ctx, event); hookErr != nil {
		err = errors.Join(err, hookErr)
	}
	s.recordTelemetry(ctx, TelemetryInvalidate, map[string]any{
		"resource":      string(resource),
		"error":         event.Error,
		"charts_purged": purged,
	})
	return err
}

// RefreshAll re-queries every collection and joins the failures.
func (s *Service) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, r := range []Resource{ResourceEvents, ResourceClients, ResourceUsers, ResourceAccounts, ResourceSales} {
		errs = append(errs, s.Invalidate(ctx, r))
	}
	return errors.Join(errs...)
}

// CollectionStatus summarizes a collection for health and loading indicators.
type CollectionStatus struct {
	Resource  Resource  `json:"resource"`
	Count     int       `json:"count"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Status reports the state of every collection.
func (s *Service) Status() []CollectionStatus {
	return []CollectionStatus{
		collectionStatus(s.events),
		collectionStatus(s.clients),
		collectionStatus(s.users),
		collectionStatus(s.accounts),
		collectionStatus(s.sales),
	}
}

func collectionStatus[T any](c *Collection[T]) CollectionStatus {
	state := c.State()
	status := CollectionStatus{
		Resource:  c.Name(),
		Count:     len(state.Items),
		Loading:   state.Loading,
		FetchedAt: state.FetchedAt,
	}
	if state.Err != nil {
		status.Error = state.Err.Error()
	}
	return status
}

// itemsOf fetches the collection once, and serves the last good items when a
// later refresh failed.
func itemsOf[T any](ctx context.Context, c *Collection[T]) ([]T, error) {
	if err := c.Ensure(ctx); err != nil {
		if items := c.Items(); len(items) > 0 {
			return items, nil
		}
		return nil, fmt.Errorf("dashboard: load %s: %w", c.Name(), err)
	}
	return c.Items(), nil
}

// Events returns the current event collection.
func (s *Service) Events(ctx context.Context) ([]Event, error) {
	return itemsOf(ctx, s.events)
}

// Accounts returns the current account collection.
func (s *Service) Accounts(ctx context.Context) ([]ClientAccount, error) {
	return itemsOf(ctx, s.accounts)
}

// Sales returns the sales series.
func (s *Service) Sales(ctx context.Context) ([]SalesPoint, error) {
	return itemsOf(ctx, s.sales)
}

// Dashboard builds the landing view for the signed-in profile.
func (s *Service) Dashboard(ctx context.Context, viewer ViewerContext, profile AdminProfile) (DashboardView, error) {
	events, err := itemsOf(ctx, s.events)
	if err != nil {
		return DashboardView{}, err
	}
	sales, err := itemsOf(ctx, s.sales)
	if err != nil {
		return DashboardView{}, err
	}
	var recent []activity.Event
	if s.opts.Activity != nil {
		recent, err = s.opts.Activity.Recent(ctx, recentActivityLimit)
		if err != nil {
			s.recordTelemetry(ctx, TelemetryActivityError, map[string]any{"error": err.Error()})
		}
	}
	view := BuildDashboardView(DashboardParams{
		Events:   events,
		Sales:    sales,
		Profile:  profile,
		Activity: recent,
		Now:      s.Now(),
	})
	view.Charts = s.renderCharts(ctx, viewer, Dataset{
		Events:    events,
		Sales:     sales,
		Summary:   view.Summary,
		TopEvents: view.TopEvents,
	}, ChartSalesTrend, ChartTopEvents)
	s.recordTelemetry(ctx, TelemetryDashboardView, map[string]any{"events": len(events)})
	return view, nil
}

// Statistics builds the statistics view.
func (s *Service) Statistics(ctx context.Context, viewer ViewerContext, filter StatisticsFilter, showAll bool) (StatisticsView, error) {
	events, err := itemsOf(ctx, s.events)
	if err != nil {
		return StatisticsView{}, err
	}
	sales, err := itemsOf(ctx, s.sales)
	if err != nil {
		return StatisticsView{}, err
	}
	view := BuildStatisticsView(StatisticsParams{
		Events:  events,
		Sales:   sales,
		Filter:  filter,
		ShowAll: showAll,
		Now:     s.Now(),
	})
	view.Charts = s.renderCharts(ctx, viewer, Dataset{
		Events:    view.Events,
		Sales:     sales,
		Summary:   view.Summary,
		Breakdown: view.Breakdown,
		TopEvents: view.TopEvents,
	}, ChartSalesTrend, ChartTicketMix, ChartTopEvents, ChartOccupancy)
	s.recordTelemetry(ctx, TelemetryStatisticsView, map[string]any{
		"status":   filter.Status,
		"range":    string(filter.Range),
		"filtered": len(view.Events),
	})
	return view, nil
}

// EventsView builds the events catalogue.
func (s *Service) EventsView(ctx context.Context, filter EventFilter, page int) (EventsView, error) {
	events, err := itemsOf(ctx, s.events)
	if err != nil {
		return EventsView{}, err
	}
	return BuildEventsView(events, filter, page), nil
}

// TicketSales builds the ticket inventory view.
func (s *Service) TicketSales(ctx context.Context, filter TicketSalesFilter) (TicketSalesView, error) {
	events, err := itemsOf(ctx, s.events)
	if err != nil {
		return TicketSalesView{}, err
	}
	return BuildTicketSalesView(events, filter, s.Now()), nil
}

// Clients builds the clients view.
func (s *Service) Clients(ctx context.Context, params ClientsParams) (ClientsView, error) {
	clients, err := itemsOf(ctx, s.clients)
	if err != nil {
		return ClientsView{}, err
	}
	params.Clients = clients
	return BuildClientsView(params), nil
}

// AccountsView builds the accounts view.
func (s *Service) AccountsView(ctx context.Context, params AccountsParams) (AccountsView, error) {
	accounts, err := itemsOf(ctx, s.accounts)
	if err != nil {
		return AccountsView{}, err
	}
	params.Accounts = accounts
	return BuildAccountsView(params), nil
}

// Users builds the administrators view.
func (s *Service) Users(ctx context.Context, filter UserFilter) (UsersView, error) {
	users, err := itemsOf(ctx, s.users)
	if err != nil {
		return UsersView{}, err
	}
	return BuildUsersView(users, filter), nil
}

// Settings fetches the profile of adminID.
func (s *Service) Settings(ctx context.Context, adminID int) (SettingsView, error) {
	if s.opts.Profiles == nil {
		return SettingsView{}, errMissingProfiles
	}
	profile, err := s.opts.Profiles.Admin(ctx, adminID)
	if err != nil {
		return SettingsView{}, fmt.Errorf("dashboard: load profile %d: %w", adminID, err)
	}
	return BuildSettingsView(profile), nil
}

// Chart renders a single registered chart over the dataset.
func (s *Service) Chart(ctx context.Context, viewer ViewerContext, code string, data Dataset) (ChartData, error) {
	def, ok := s.opts.Charts.Definition(code)
	if !ok {
		return nil, fmt.Errorf("dashboard: chart %s not registered", code)
	}
	provider, ok := s.opts.Charts.Provider(code)
	if !ok {
		return nil, fmt.Errorf("dashboard: chart %s has no provider", code)
	}
	return provider.Fetch(ctx, ChartContext{Definition: def, Viewer: viewer, Dataset: data})
}

func (s *Service) renderCharts(ctx context.Context, viewer ViewerContext, data Dataset, codes ...string) map[string]string {
	out := make(map[string]string, len(codes))
	for _, code := range codes {
		chart, err := s.Chart(ctx, viewer, code, data)
		if err != nil {
			s.recordTelemetry(ctx, TelemetryChartError, map[string]any{
				"chart": code,
				"error": err.Error(),
			})
			continue
		}
		out[code] = chart.HTML()
	}
	return out
}

type noopRefreshHook struct{}

func (noopRefreshHook) Invalidated(context.Context, InvalidationEvent) error {
	return nil
}
