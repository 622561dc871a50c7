package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Page identifies a dashboard screen.
type Page string

const (
	PageDashboard  Page = "dashboard"
	PageStatistics Page = "statistics"
	PageEvents     Page = "events"
	PageTickets    Page = "tickets"
	PageClients    Page = "clients"
	PageAccounts   Page = "accounts"
	PageUsers      Page = "users"
	PageSettings   Page = "settings"
)

// Pages lists the navigable screens in menu order.
var Pages = []Page{PageDashboard, PageStatistics, PageEvents, PageTickets, PageClients, PageAccounts, PageUsers, PageSettings}

// ErrUnknownPage is returned for pages outside Pages.
var ErrUnknownPage = errors.New("dashboard: unknown page")

// PageRequest carries the viewer and the raw query parameters of a page.
type PageRequest struct {
	Page    Page
	Viewer  ViewerContext
	Profile AdminProfile
	Params  map[string]string
}

func (r PageRequest) param(key string) string {
	return strings.TrimSpace(r.Params[key])
}

func (r PageRequest) flag(key string) bool {
	v, _ := strconv.ParseBool(r.param(key))
	return v
}

func (r PageRequest) intParam(key string, fallback int) int {
	v, err := strconv.Atoi(r.param(key))
	if err != nil {
		return fallback
	}
	return v
}

func (r PageRequest) dateRange() DateRange {
	return DateRange{From: ParseDay(r.param("from")), To: ParseDay(r.param("to"))}
}

// ParseDay parses a YYYY-MM-DD value, returning the zero time when invalid.
func ParseDay(raw string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ViewLoader builds page models. *Service implements it.
type ViewLoader interface {
	Dashboard(ctx context.Context, viewer ViewerContext, profile AdminProfile) (DashboardView, error)
	Statistics(ctx context.Context, viewer ViewerContext, filter StatisticsFilter, showAll bool) (StatisticsView, error)
	EventsView(ctx context.Context, filter EventFilter, page int) (EventsView, error)
	TicketSales(ctx context.Context, filter TicketSalesFilter) (TicketSalesView, error)
	Clients(ctx context.Context, params ClientsParams) (ClientsView, error)
	AccountsView(ctx context.Context, params AccountsParams) (AccountsView, error)
	Users(ctx context.Context, filter UserFilter) (UsersView, error)
	Settings(ctx context.Context, adminID int) (SettingsView, error)
}

var _ ViewLoader = (*Service)(nil)

// ControllerOptions configures the HTML controller.
type ControllerOptions struct {
	Service  ViewLoader
	Renderer Renderer
	Brand    string
}

// Controller turns page requests into view models and rendered templates.
type Controller struct {
	service  ViewLoader
	renderer Renderer
	brand    string
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	brand := opts.Brand
	if brand == "" {
		brand = "EventMaster"
	}
	return &Controller{service: opts.Service, renderer: opts.Renderer, brand: brand}
}

// View builds the model of the requested page from its query parameters.
func (c *Controller) View(ctx context.Context, req PageRequest) (any, error) {
	if c.service == nil {
		return nil, fmt.Errorf("dashboard: controller has no service")
	}
	switch req.Page {
	case PageDashboard:
		return c.service.Dashboard(ctx, req.Viewer, req.Profile)
	case PageStatistics:
		filter := StatisticsFilter{Status: req.param("status"), Range: RangePreset(req.param("range"))}
		return c.service.Statistics(ctx, req.Viewer, filter, req.flag("all"))
	case PageEvents:
		return c.service.EventsView(ctx, EventFilter{
			Search: req.param("q"),
			Status: req.param("status"),
			Type:   req.param("type"),
			Range:  req.dateRange(),
		}, req.intParam("page", 1))
	case PageTickets:
		return c.service.TicketSales(ctx, TicketSalesFilter{
			Search:       req.param("q"),
			Range:        req.dateRange(),
			Availability: Availability(req.param("availability")),
		})
	case PageClients:
		return c.service.Clients(ctx, ClientsParams{
			Filter:             ClientFilter{Search: req.param("q"), Status: req.param("status")},
			Sort:               ClientSortKey(req.param("sort")),
			ShowAllAmbassadors: req.flag("all_ambassadors"),
			ShowAllSpenders:    req.flag("all_spenders"),
			Page:               req.intParam("page", 1),
		})
	case PageAccounts:
		return c.service.AccountsView(ctx, AccountsParams{
			Filter:         AccountFilter{Search: req.param("q"), Balance: BalanceFilter(req.param("balance"))},
			SortBy:         AccountSortKey(req.param("sort")),
			Order:          SortOrder(req.param("order")),
			Page:           req.intParam("page", 1),
			SelectedID:     req.param("account"),
			TransactionsIn: req.dateRange(),
		})
	case PageUsers:
		return c.service.Users(ctx, UserFilter{Search: req.param("q"), Role: req.param("role")})
	case PageSettings:
		id, err := strconv.Atoi(req.Viewer.UserID)
		if err != nil {
			return nil, fmt.Errorf("dashboard: viewer %q has no admin id", req.Viewer.UserID)
		}
		return c.service.Settings(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, req.Page)
	}
}

// RenderTemplate renders the page template for req into out.
func (c *Controller) RenderTemplate(ctx context.Context, req PageRequest, out io.Writer) error {
	if c.renderer == nil {
		return fmt.Errorf("dashboard: controller has no renderer")
	}
	view, err := c.View(ctx, req)
	if err != nil {
		return err
	}
	data := templateHelpers()
	data["brand"] = c.brand
	data["page"] = string(req.Page)
	data["title"] = req.Page.TitleFor(req.Viewer.Locale)
	data["nav"] = navigation(req.Page, req.Viewer.Locale)
	data["viewer"] = req.Viewer
	data["profile"] = req.Profile
	data["params"] = req.Params
	data["view"] = view
	if _, err := c.renderer.Render("pages/"+string(req.Page), data, out); err != nil {
		return fmt.Errorf("dashboard: render %s: %w", req.Page, err)
	}
	return nil
}

// NavItem is a sidebar entry.
type NavItem struct {
	Page   string
	Title  string
	Active bool
}

func navigation(active Page, locale string) []NavItem {
	items := make([]NavItem, len(Pages))
	for i, p := range Pages {
		items[i] = NavItem{Page: string(p), Title: p.TitleFor(locale), Active: p == active}
	}
	return items
}
