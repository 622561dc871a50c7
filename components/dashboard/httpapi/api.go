package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/components/dashboard/commands"
)

// Handlers exposes net/http endpoints backed by an Executor. Handlers that
// act on a record take its identifier, extracted by the caller's mux.
type Handlers struct {
	Executor Executor
	// Viewer resolves the signed-in administrator, used for actor stamping.
	Viewer func(*http.Request) dashboard.ViewerContext
}

func (h *Handlers) context(r *http.Request) context.Context {
	ctx := r.Context()
	if h.Viewer != nil {
		ctx = dashboard.WithActor(ctx, dashboard.ActorFor(h.Viewer(r)))
	}
	return ctx
}

func (h *Handlers) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, err := DecodeEvent(r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, h.Executor.CreateEvent(h.context(r), in))
}

func (h *Handlers) HandleUpdateEvent(w http.ResponseWriter, r *http.Request, id string) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, err := DecodeEvent(r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, h.Executor.UpdateEvent(h.context(r), commands.UpdateEventInput{ID: id, Event: in}))
}

func (h *Handlers) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var in dashboard.TicketInput
	if !decodeRequest(w, r, &in) {
		return
	}
	h.respond(w, http.StatusCreated, h.Executor.CreateTicket(h.context(r), in))
}

func (h *Handlers) HandleUpdateTicket(w http.ResponseWriter, r *http.Request, id string) {
	var in dashboard.TicketInput
	if !decodeRequest(w, r, &in) {
		return
	}
	h.respond(w, http.StatusOK, h.Executor.UpdateTicket(h.context(r), commands.UpdateTicketInput{ID: id, Ticket: in}))
}

func (h *Handlers) HandleDeleteTicket(w http.ResponseWriter, r *http.Request, id string) {
	h.respond(w, http.StatusNoContent, h.Executor.DeleteTicket(h.context(r), commands.DeleteTicketInput{ID: id}))
}

func (h *Handlers) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, err := DecodeAdmin(body)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, h.Executor.CreateAdmin(h.context(r), in))
}

func (h *Handlers) HandleUpdateAdmin(w http.ResponseWriter, r *http.Request, id string) {
	adminID, ok := parseID(w, id)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, err := DecodeAdmin(body)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, h.Executor.UpdateAdmin(h.context(r), commands.UpdateAdminInput{ID: adminID, Admin: in}))
}

func (h *Handlers) HandleDeleteAdmin(w http.ResponseWriter, r *http.Request, id string) {
	adminID, ok := parseID(w, id)
	if !ok {
		return
	}
	h.respond(w, http.StatusNoContent, h.Executor.DeleteAdmin(h.context(r), commands.DeleteAdminInput{ID: adminID}))
}

func (h *Handlers) HandleToggleAdmin(w http.ResponseWriter, r *http.Request, id string) {
	adminID, ok := parseID(w, id)
	if !ok {
		return
	}
	var payload struct {
		Active bool `json:"active"`
	}
	if !decodeRequest(w, r, &payload) {
		return
	}
	h.respond(w, http.StatusOK, h.Executor.ToggleAdmin(h.context(r), commands.ToggleAdminStatusInput{ID: adminID, Active: payload.Active}))
}

func (h *Handlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request, id string) {
	adminID, ok := parseID(w, id)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	in, err := DecodeProfile(r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, h.Executor.UpdateProfile(h.context(r), commands.UpdateProfileInput{ID: adminID, Profile: in}))
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshInput
	if r.ContentLength != 0 && !decodeRequest(w, r, &payload) {
		return
	}
	h.respond(w, http.StatusAccepted, h.Executor.Refresh(h.context(r), payload))
}

func (h *Handlers) respond(w http.ResponseWriter, status int, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"status": "ok"})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadMemory))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := decodeJSON(body, v); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id " + strconv.Quote(raw)})
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]any{"error": err.Error()}
	var payload *dashboard.PayloadError
	if errors.As(err, &payload) && len(payload.Fields) > 0 {
		body["fields"] = payload.Fields
	}
	writeJSON(w, StatusFor(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
