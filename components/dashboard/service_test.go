package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-ticketdash/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvents struct {
	mu     sync.Mutex
	events []Event
	err    error
	calls  int
}

func (s *stubEvents) ListEvents(context.Context) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.events, s.err
}

type stubProfiles struct {
	profile AdminProfile
	err     error
}

func (s stubProfiles) Admin(_ context.Context, id int) (AdminProfile, error) {
	p := s.profile
	p.ID = id
	return p, s.err
}

type recordingHook struct {
	events []InvalidationEvent
}

func (h *recordingHook) Invalidated(_ context.Context, e InvalidationEvent) error {
	h.events = append(h.events, e)
	return nil
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func newTestService(t *testing.T, events *stubEvents, opts ...func(*Options)) *Service {
	t.Helper()
	fixtures, err := LoadFixtures("")
	require.NoError(t, err)
	o := Options{
		Events:     events,
		Accounts:   fixtures,
		Sales:      fixtures,
		ChartCache: NewChartCache(0),
		Charts:     NewRegistry(WithChartCache(nil)),
		Clock:      func() time.Time { return day(2026, 7, 1) },
	}
	for _, fn := range opts {
		fn(&o)
	}
	return NewService(o)
}

func TestServiceDashboardRendersCharts(t *testing.T) {
	events := &stubEvents{events: []Event{eventWithRevenue("Jazz", 120)}}
	feed := activity.NewRecentFeed(10)
	require.NoError(t, feed.Notify(context.Background(), activity.Event{Verb: "created", ActorID: "1", ObjectType: "event", ObjectID: "9"}))
	svc := newTestService(t, events, func(o *Options) { o.Activity = feed })

	view, err := svc.Dashboard(context.Background(), ViewerContext{UserID: "1"}, AdminProfile{FirstName: "Awa"})
	require.NoError(t, err)
	assert.Equal(t, 120.0, view.Summary.Revenue)
	assert.Len(t, view.RecentActivity, 1)
	assert.Contains(t, view.Charts, ChartSalesTrend)
	assert.Contains(t, view.Charts, ChartTopEvents)
	assert.Equal(t, 1, events.calls)

	_, err = svc.Dashboard(context.Background(), ViewerContext{}, AdminProfile{})
	require.NoError(t, err)
	assert.Equal(t, 1, events.calls, "collections are fetched once until invalidated")
}

func TestServiceServesLastGoodItemsAfterFailure(t *testing.T) {
	events := &stubEvents{events: []Event{{Title: "Jazz"}}}
	hook := &recordingHook{}
	svc := newTestService(t, events, func(o *Options) { o.RefreshHook = hook })

	_, err := svc.EventsView(context.Background(), EventFilter{}, 1)
	require.NoError(t, err)

	events.err = errors.New("backend down")
	err = svc.Invalidate(context.Background(), ResourceEvents)
	require.Error(t, err)
	require.Len(t, hook.events, 1)
	assert.Equal(t, ResourceEvents, hook.events[0].Resource)
	assert.Equal(t, "backend down", hook.events[0].Error)

	view, err := svc.EventsView(context.Background(), EventFilter{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Page.TotalItems)
}

func TestServiceSurfacesFirstLoadFailure(t *testing.T) {
	events := &stubEvents{err: errors.New("backend down")}
	svc := newTestService(t, events)

	_, err := svc.TicketSales(context.Background(), TicketSalesFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load events")
}

func TestServiceInvalidateRejectsUnknownResource(t *testing.T) {
	svc := newTestService(t, &stubEvents{})
	err := svc.Invalidate(context.Background(), Resource("tickets"))
	assert.ErrorIs(t, err, errUnknownResource)
}

func TestServiceStatisticsRecordsTelemetry(t *testing.T) {
	telemetry := &recordingTelemetry{}
	events := &stubEvents{events: sampleEvents()}
	svc := newTestService(t, events, func(o *Options) { o.Telemetry = telemetry })

	view, err := svc.Statistics(context.Background(), ViewerContext{}, StatisticsFilter{Status: "draft"}, false)
	require.NoError(t, err)
	assert.Len(t, view.Events, 2)
	assert.Contains(t, telemetry.events, TelemetryStatisticsView)
}

func TestServiceSettings(t *testing.T) {
	svc := newTestService(t, &stubEvents{}, func(o *Options) {
		o.Profiles = stubProfiles{profile: AdminProfile{FirstName: "Awa", Email: "awa@example.com"}}
	})
	view, err := svc.Settings(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Profile.ID)

	bare := newTestService(t, &stubEvents{})
	_, err = bare.Settings(context.Background(), 1)
	assert.ErrorIs(t, err, errMissingProfiles)
}

func TestServiceStatus(t *testing.T) {
	svc := newTestService(t, &stubEvents{events: sampleEvents()})
	require.NoError(t, svc.RefreshAll(context.Background()))
	status := svc.Status()
	require.Len(t, status, 5)
	assert.Equal(t, ResourceEvents, status[0].Resource)
	assert.Equal(t, 3, status[0].Count)
	assert.Equal(t, 3, status[3].Count)
}
