package gorouter

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/components/dashboard/commands"
	"github.com/goliatone/go-ticketdash/components/dashboard/httpapi"
	"github.com/goliatone/go-ticketdash/components/dashboard/queries"
	"github.com/goliatone/go-ticketdash/pkg/export"
	"github.com/goliatone/go-ticketdash/pkg/session"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// ProfileSource returns the signed-in administrator, if any.
type ProfileSource interface {
	Profile(ctx context.Context) (dashboard.AdminProfile, bool)
}

// SessionExpiry reports whether the signed-in session has lapsed.
type SessionExpiry interface {
	Expired() bool
}

// Exporter builds downloadable reports.
type Exporter interface {
	Build(ctx context.Context, req export.Request) (export.File, error)
}

// StatusReporter exposes the collection loading and error state.
type StatusReporter interface {
	Status() []dashboard.CollectionStatus
}

// Config wires go-router with the dashboard controller, command executor,
// exporter and invalidation stream.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Exporter       Exporter
	Broadcast      *dashboard.BroadcastHook
	Status         StatusReporter
	Profiles       ProfileSource
	Expiry         SessionExpiry
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	Page        string
	View        string
	Events      string
	EventID     string
	Tickets     string
	TicketID    string
	Admins      string
	AdminID     string
	AdminStatus string
	Profile     string
	Refresh     string
	Status      string
	Export      string
	WebSocket   string
}

// registrar is the subset of router.Router used to mount routes.
type registrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo
}

// pageParams are the query parameters forwarded to page and export handlers.
var pageParams = []string{
	"q", "status", "type", "role", "from", "to", "page", "range", "all",
	"availability", "sort", "order", "balance", "account",
	"all_ambassadors", "all_spenders", "format",
}

// Register mounts dashboard routes (HTML, JSON, commands, exports, WebSocket)
// on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	mount(cfg.Router.Group(base), cfg.handlers(), defaultRouteConfig(cfg.Routes))
	return nil
}

func (cfg Config[T]) handlers() *handlers {
	h := &handlers{
		controller: cfg.Controller,
		views:      queries.NewPageQuery(cfg.Controller),
		api:        cfg.API,
		exporter:   cfg.Exporter,
		broadcast:  cfg.Broadcast,
		profiles:   cfg.Profiles,
		expiry:     cfg.Expiry,
		resolver:   cfg.ViewerResolver,
	}
	if h.resolver == nil {
		h.resolver = defaultViewerResolver
	}
	if cfg.Status != nil {
		h.status = queries.NewStatusQuery(cfg.Status)
	}
	return h
}

func mount(r registrar, h *handlers, routes RouteConfig) {
	// The stream is mounted before the page wildcard so /ws is not taken for a page.
	if h.broadcast != nil {
		registerWebSocket(r, h.broadcast, routes.WebSocket)
	}
	if h.api != nil {
		for _, route := range commandRoutes(routes) {
			handler := h.commandHandler(route)
			switch route.method {
			case http.MethodDelete:
				r.Delete(route.path, handler)
			default:
				r.Post(route.path, handler)
			}
		}
	}
	if h.exporter != nil {
		r.Get(routes.Export, router.WrapHandler(h.serveExport))
	}
	if h.status != nil {
		r.Get(routes.Status, router.WrapHandler(h.serveStatus))
	}
	r.Get(routes.View, router.WrapHandler(h.serveView))
	r.Get(routes.Page, router.WrapHandler(h.servePage))
}

type handlers struct {
	controller *dashboard.Controller
	views      *queries.PageQuery
	status     *queries.StatusQuery
	api        httpapi.Executor
	exporter   Exporter
	broadcast  *dashboard.BroadcastHook
	profiles   ProfileSource
	expiry     SessionExpiry
	resolver   ViewerResolver
}

// request is the transport-independent part of an incoming call.
type request struct {
	ID          string
	ContentType string
	Body        []byte
	Params      map[string]string
	Viewer      dashboard.ViewerContext
	Profile     dashboard.AdminProfile
}

func (h *handlers) read(ctx router.Context) request {
	req := request{
		ID:          ctx.Param("id"),
		ContentType: ctx.Header("Content-Type"),
		Body:        ctx.Body(),
		Params:      map[string]string{},
		Viewer:      h.resolver(ctx),
	}
	for _, key := range pageParams {
		if v := strings.TrimSpace(ctx.Query(key)); v != "" {
			req.Params[key] = v
		}
	}
	if h.profiles != nil {
		if profile, ok := h.profiles.Profile(ctx.Context()); ok {
			req.Profile = profile
			req.Viewer = withProfile(req.Viewer, profile)
		}
	}
	return req
}

// withProfile fills the viewer identity from the session profile when the
// request carried none.
func withProfile(viewer dashboard.ViewerContext, profile dashboard.AdminProfile) dashboard.ViewerContext {
	if viewer.UserID == "" && profile.ID > 0 {
		viewer.UserID = strconv.Itoa(profile.ID)
	}
	if viewer.Name == "" {
		viewer.Name = profile.DisplayName()
	}
	if viewer.Role == "" {
		viewer.Role = profile.Role
	}
	return viewer
}

func (h *handlers) servePage(ctx router.Context) error {
	if h.lapsed(ctx.Context()) {
		return respondError(ctx, http.StatusUnauthorized, session.ErrExpired)
	}
	req := h.read(ctx)
	body, err := h.renderPage(ctx.Context(), dashboard.Page(ctx.Param("page")), req)
	if err != nil {
		return respondError(ctx, pageStatus(err), err)
	}
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send(body)
}

// lapsed is true when an administrator is signed in but the token has expired.
func (h *handlers) lapsed(ctx context.Context) bool {
	if h.profiles == nil || h.expiry == nil {
		return false
	}
	_, ok := h.profiles.Profile(ctx)
	return ok && h.expiry.Expired()
}

func (h *handlers) renderPage(ctx context.Context, page dashboard.Page, req request) ([]byte, error) {
	if page == "" {
		page = dashboard.PageDashboard
	}
	var buf bytes.Buffer
	err := h.controller.RenderTemplate(activityContext(ctx, req), dashboard.PageRequest{
		Page:    page,
		Viewer:  req.Viewer,
		Profile: req.Profile,
		Params:  req.Params,
	}, &buf)
	return buf.Bytes(), err
}

func (h *handlers) serveView(ctx router.Context) error {
	if h.lapsed(ctx.Context()) {
		return respondError(ctx, http.StatusUnauthorized, session.ErrExpired)
	}
	req := h.read(ctx)
	view, err := h.views.Query(activityContext(ctx.Context(), req), dashboard.PageRequest{
		Page:    dashboard.Page(ctx.Param("page")),
		Viewer:  req.Viewer,
		Profile: req.Profile,
		Params:  req.Params,
	})
	if err != nil {
		return respondError(ctx, pageStatus(err), err)
	}
	return ctx.JSON(http.StatusOK, view)
}

func (h *handlers) serveStatus(ctx router.Context) error {
	status, err := h.status.Query(ctx.Context(), queries.StatusInput{})
	if err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	return ctx.JSON(http.StatusOK, status)
}

func pageStatus(err error) int {
	if errors.Is(err, dashboard.ErrUnknownPage) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (h *handlers) serveExport(ctx router.Context) error {
	req := h.read(ctx)
	file, err := h.exporter.Build(ctx.Context(), exportRequest(ctx.Param("report"), req.Params))
	if err != nil {
		return respondError(ctx, exportStatus(err), err)
	}
	ctx.SetHeader("Content-Type", file.ContentType)
	ctx.SetHeader("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	if file.ReportID != "" {
		ctx.SetHeader("X-Report-ID", file.ReportID)
	}
	return ctx.Send(file.Data)
}

func exportRequest(report string, params map[string]string) export.Request {
	return export.Request{
		Report: export.Report(report),
		Format: export.Format(params["format"]),
		Statistics: dashboard.StatisticsFilter{
			Status: params["status"],
			Range:  dashboard.RangePreset(params["range"]),
		},
		Accounts: dashboard.AccountFilter{
			Search:  params["q"],
			Balance: dashboard.BalanceFilter(params["balance"]),
		},
		SortBy:    dashboard.AccountSortKey(params["sort"]),
		Order:     dashboard.SortOrder(params["order"]),
		AccountID: params["account"],
		Range: dashboard.DateRange{
			From: dashboard.ParseDay(params["from"]),
			To:   dashboard.ParseDay(params["to"]),
		},
	}
}

func exportStatus(err error) int {
	switch {
	case errors.Is(err, export.ErrUnknownFormat), errors.Is(err, export.ErrUnknownReport):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// commandRoute binds a mutation endpoint to the executor.
type commandRoute struct {
	method string
	path   string
	status int
	run    func(ctx context.Context, api httpapi.Executor, req request) error
}

func commandRoutes(routes RouteConfig) []commandRoute {
	return []commandRoute{
		{http.MethodPost, routes.Events, http.StatusCreated, func(ctx context.Context, api httpapi.Executor, req request) error {
			in, err := httpapi.DecodeEvent(req.ContentType, req.Body)
			if err != nil {
				return err
			}
			return api.CreateEvent(ctx, in)
		}},
		{http.MethodPost, routes.EventID, http.StatusOK, func(ctx context.Context, api httpapi.Executor, req request) error {
			in, err := httpapi.DecodeEvent(req.ContentType, req.Body)
			if err != nil {
				return err
			}
			return api.UpdateEvent(ctx, commands.UpdateEventInput{ID: req.ID, Event: in})
		}},
		{http.MethodPost, routes.Tickets, http.StatusCreated, func(ctx context.Context, api httpapi.Executor, req request) error {
			var in dashboard.TicketInput
			if err := httpapi.DecodeJSON(req.Body, &in); err != nil {
				return err
			}
			return api.CreateTicket(ctx, in)
		}},
		{http.MethodPost, routes.TicketID, http.StatusOK, func(ctx context.Context, api httpapi.Executor, req request) error {
			var in dashboard.TicketInput
			if err := httpapi.DecodeJSON(req.Body, &in); err != nil {
				return err
			}
			return api.UpdateTicket(ctx, commands.UpdateTicketInput{ID: req.ID, Ticket: in})
		}},
		{http.MethodDelete, routes.TicketID, http.StatusNoContent, func(ctx context.Context, api httpapi.Executor, req request) error {
			return api.DeleteTicket(ctx, commands.DeleteTicketInput{ID: req.ID})
		}},
		{http.MethodPost, routes.Admins, http.StatusCreated, func(ctx context.Context, api httpapi.Executor, req request) error {
			in, err := httpapi.DecodeAdmin(req.Body)
			if err != nil {
				return err
			}
			return api.CreateAdmin(ctx, in)
		}},
		{http.MethodPost, routes.AdminID, http.StatusOK, func(ctx context.Context, api httpapi.Executor, req request) error {
			id, err := adminID(req.ID)
			if err != nil {
				return err
			}
			in, err := httpapi.DecodeAdmin(req.Body)
			if err != nil {
				return err
			}
			return api.UpdateAdmin(ctx, commands.UpdateAdminInput{ID: id, Admin: in})
		}},
		{http.MethodDelete, routes.AdminID, http.StatusNoContent, func(ctx context.Context, api httpapi.Executor, req request) error {
			id, err := adminID(req.ID)
			if err != nil {
				return err
			}
			return api.DeleteAdmin(ctx, commands.DeleteAdminInput{ID: id})
		}},
		{http.MethodPost, routes.AdminStatus, http.StatusOK, func(ctx context.Context, api httpapi.Executor, req request) error {
			id, err := adminID(req.ID)
			if err != nil {
				return err
			}
			var payload struct {
				Active bool `json:"active"`
			}
			if err := httpapi.DecodeJSON(req.Body, &payload); err != nil {
				return err
			}
			return api.ToggleAdmin(ctx, commands.ToggleAdminStatusInput{ID: id, Active: payload.Active})
		}},
		{http.MethodPost, routes.Profile, http.StatusOK, func(ctx context.Context, api httpapi.Executor, req request) error {
			id, err := adminID(req.Viewer.UserID)
			if err != nil {
				return err
			}
			in, err := httpapi.DecodeProfile(req.ContentType, req.Body)
			if err != nil {
				return err
			}
			return api.UpdateProfile(ctx, commands.UpdateProfileInput{ID: id, Profile: in})
		}},
		{http.MethodPost, routes.Refresh, http.StatusAccepted, func(ctx context.Context, api httpapi.Executor, req request) error {
			var in commands.RefreshInput
			if len(bytes.TrimSpace(req.Body)) > 0 {
				if err := httpapi.DecodeJSON(req.Body, &in); err != nil {
					return err
				}
			}
			return api.Refresh(ctx, in)
		}},
	}
}

func adminID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, errors.Join(httpapi.ErrBadRequest, errors.New("administrator id is required"))
	}
	return id, nil
}

// exec runs a command route and returns the response status and body.
func (h *handlers) exec(ctx context.Context, route commandRoute, req request) (int, map[string]string) {
	if err := route.run(activityContext(ctx, req), h.api, req); err != nil {
		return httpapi.StatusFor(err), map[string]string{"error": err.Error()}
	}
	return route.status, map[string]string{"status": "ok"}
}

func (h *handlers) commandHandler(route commandRoute) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		status, body := h.exec(ctx.Context(), route, h.read(ctx))
		return ctx.JSON(status, body)
	})
}

func activityContext(ctx context.Context, req request) context.Context {
	return dashboard.WithActor(ctx, dashboard.ActorFor(req.Viewer))
}

func registerWebSocket(r registrar, hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if v, ok := ctx.Locals("role").(string); ok {
		viewer.Role = v
	}
	viewer.Locale = inferLocale(ctx)
	viewer.Theme = strings.TrimSpace(ctx.Query("theme"))
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return parseAcceptLanguage(ctx.Header("Accept-Language"))
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	set := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	set(&routes.Page, "/:page")
	set(&routes.View, "/api/views/:page")
	set(&routes.Events, "/api/events")
	set(&routes.EventID, "/api/events/:id")
	set(&routes.Tickets, "/api/tickets")
	set(&routes.TicketID, "/api/tickets/:id")
	set(&routes.Admins, "/api/admins")
	set(&routes.AdminID, "/api/admins/:id")
	set(&routes.AdminStatus, "/api/admins/:id/status")
	set(&routes.Profile, "/api/profile")
	set(&routes.Refresh, "/api/refresh")
	set(&routes.Status, "/api/status")
	set(&routes.Export, "/export/:report")
	set(&routes.WebSocket, "/ws")
	return routes
}
