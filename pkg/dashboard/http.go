package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	core "github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/components/dashboard/httpapi"
	"github.com/goliatone/go-ticketdash/pkg/logging"
	"github.com/goliatone/go-ticketdash/pkg/session"
)

// Handler serves the dashboard on net/http for hosts that do not run fiber.
// Pages, commands and the SSE and WebSocket invalidation streams are mounted
// under basePath.
func (a *App) Handler(basePath string) http.Handler {
	api := &httpapi.Handlers{Executor: a.Executor, Viewer: a.viewer}
	mux := http.NewServeMux()

	withID := func(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, r.PathValue("id"))
		}
	}

	mux.HandleFunc("POST /api/events", api.HandleCreateEvent)
	mux.HandleFunc("POST /api/events/{id}", withID(api.HandleUpdateEvent))
	mux.HandleFunc("POST /api/tickets", api.HandleCreateTicket)
	mux.HandleFunc("POST /api/tickets/{id}", withID(api.HandleUpdateTicket))
	mux.HandleFunc("DELETE /api/tickets/{id}", withID(api.HandleDeleteTicket))
	mux.HandleFunc("POST /api/admins", api.HandleCreateAdmin)
	mux.HandleFunc("POST /api/admins/{id}", withID(api.HandleUpdateAdmin))
	mux.HandleFunc("DELETE /api/admins/{id}", withID(api.HandleDeleteAdmin))
	mux.HandleFunc("POST /api/admins/{id}/status", withID(api.HandleToggleAdmin))
	mux.HandleFunc("POST /api/profile", func(w http.ResponseWriter, r *http.Request) {
		api.HandleUpdateProfile(w, r, a.profileID(r.Context()))
	})
	mux.HandleFunc("POST /api/refresh", api.HandleRefresh)
	mux.HandleFunc("GET /stream", a.Broadcast.ServeSSE)
	mux.HandleFunc("GET /ws", a.Broadcast.ServeWebSocket)
	mux.HandleFunc("GET /{page}", a.servePage)
	mux.HandleFunc("GET /{$}", a.servePage)

	var handler http.Handler = withCorrelationID(mux)
	if base := strings.TrimRight(basePath, "/"); base != "" {
		handler = http.StripPrefix(base, handler)
	}
	return handler
}

// withCorrelationID tags each request context with the caller's X-Request-ID,
// or a fresh one, and echoes it on the response.
func withCorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.ContextWithCorrelationID(r.Context(), r.Header.Get(requestIDHeader))
		w.Header().Set(requestIDHeader, logging.CorrelationIDFrom(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const requestIDHeader = "X-Request-ID"

func (a *App) viewer(r *http.Request) core.ViewerContext {
	viewer := core.ViewerContext{
		Locale: r.URL.Query().Get("locale"),
		Theme:  r.URL.Query().Get("theme"),
	}
	if profile, ok := a.Session.Profile(r.Context()); ok {
		viewer.UserID = strconv.Itoa(profile.ID)
		viewer.Name = profile.DisplayName()
		viewer.Role = profile.Role
	}
	return viewer
}

func (a *App) profileID(ctx context.Context) string {
	profile, ok := a.Session.Profile(ctx)
	if !ok {
		return ""
	}
	return strconv.Itoa(profile.ID)
}

func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.Session.Profile(r.Context()); ok && a.Session.Expired() {
		http.Error(w, session.ErrExpired.Error(), http.StatusUnauthorized)
		return
	}
	page := core.Page(r.PathValue("page"))
	if page == "" {
		page = core.PageDashboard
	}
	params := map[string]string{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
			params[key] = values[0]
		}
	}
	req := core.PageRequest{Page: page, Viewer: a.viewer(r), Params: params}
	if profile, ok := a.Session.Profile(r.Context()); ok {
		req.Profile = profile
	}
	ctx := core.WithActor(r.Context(), core.ActorFor(req.Viewer))

	var buf bytes.Buffer
	if err := a.Controller.RenderTemplate(ctx, req, &buf); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, core.ErrUnknownPage) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// ListenAndServe serves Handler on the configured address until ctx is cancelled.
func (a *App) ListenAndServe(ctx context.Context, basePath string) error {
	server := &http.Server{
		Addr:              a.Config.Server.Addr,
		Handler:           a.Handler(basePath),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	a.Logger.WithField("addr", server.Addr).Info("dashboard listening (net/http)")

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
