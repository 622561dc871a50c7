package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/components/dashboard/commands"
)

type stubCommander[T any] struct {
	last  T
	ctx   context.Context
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.ctx = ctx
	s.calls++
	return s.err
}

type statusError int

func (e statusError) Error() string   { return "upstream failure" }
func (e statusError) HTTPStatus() int { return int(e) }

func multipartEvent(t *testing.T) (string, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"title":    "Festival Jazz",
		"date":     "2026-06-10",
		"location": "Paris",
	} {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("image", "cover.png")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	fw.Write([]byte("png-bytes"))
	mw.Close()
	return mw.FormDataContentType(), buf.Bytes()
}

func TestHandleCreateEventMultipart(t *testing.T) {
	create := &stubCommander[dashboard.EventInput]{}
	api := &Handlers{
		Executor: &CommandExecutor{CreateEventCommander: create},
		Viewer: func(*http.Request) dashboard.ViewerContext {
			return dashboard.ViewerContext{UserID: "7", Name: "Awa Diallo"}
		},
	}
	contentType, body := multipartEvent(t)
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	api.HandleCreateEvent(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if create.last.Title != "Festival Jazz" || create.last.Location != "Paris" {
		t.Fatalf("unexpected payload %+v", create.last)
	}
	if create.last.Image.Empty() || create.last.Image.Filename != "cover.png" {
		t.Fatalf("expected image upload")
	}
	if actor := dashboard.ActorFrom(create.ctx); actor.ID != "7" {
		t.Fatalf("expected actor propagation, got %+v", actor)
	}
}

func TestHandleCreateEventValidationStatus(t *testing.T) {
	create := &stubCommander[dashboard.EventInput]{err: dashboard.ErrImageRequired}
	api := &Handlers{Executor: &CommandExecutor{CreateEventCommander: create}}
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte(`{"title":"x","date":"2026-01-01","location":"Lyon"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.HandleCreateEvent(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected error message")
	}
}

func TestHandleDeleteTicket(t *testing.T) {
	remove := &stubCommander[commands.DeleteTicketInput]{}
	api := &Handlers{Executor: &CommandExecutor{DeleteTicketCommander: remove}}
	req := httptest.NewRequest(http.MethodDelete, "/tickets/t1", nil)
	rec := httptest.NewRecorder()
	api.HandleDeleteTicket(rec, req, "t1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if remove.last.ID != "t1" {
		t.Fatalf("expected ticket id propagation")
	}
}

func TestHandleCreateAdminKeepsConfirmation(t *testing.T) {
	create := &stubCommander[dashboard.AdminInput]{}
	api := &Handlers{Executor: &CommandExecutor{CreateAdminCommander: create}}
	body := `{"first_name":"Awa","last_name":"Diallo","email":"awa@example.com","role":"admin","password":"secret-123","password_confirmation":"secret-123"}`
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	api.HandleCreateAdmin(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if create.last.PasswordConfirmation != "secret-123" || create.last.Password != "secret-123" {
		t.Fatalf("expected passwords to be decoded, got %+v", create.last)
	}
}

func TestHandleToggleAdmin(t *testing.T) {
	toggle := &stubCommander[commands.ToggleAdminStatusInput]{}
	api := &Handlers{Executor: &CommandExecutor{ToggleAdminCommander: toggle}}
	req := httptest.NewRequest(http.MethodPost, "/users/4/status", bytes.NewReader([]byte(`{"active":true}`)))
	rec := httptest.NewRecorder()
	api.HandleToggleAdmin(rec, req, "4")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if toggle.last.ID != 4 || !toggle.last.Active {
		t.Fatalf("unexpected payload %+v", toggle.last)
	}

	rec = httptest.NewRecorder()
	api.HandleToggleAdmin(rec, httptest.NewRequest(http.MethodPost, "/users/x/status", nil), "x")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
	}
}

func TestHandleRefreshWithoutBody(t *testing.T) {
	refresh := &stubCommander[commands.RefreshInput]{}
	api := &Handlers{Executor: &CommandExecutor{RefreshCommander: refresh}}
	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	api.HandleRefresh(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if refresh.calls != 1 {
		t.Fatalf("expected refresh to execute")
	}
}

func TestMissingCommanderIsNotImplemented(t *testing.T) {
	api := &Handlers{Executor: &CommandExecutor{}}
	req := httptest.NewRequest(http.MethodDelete, "/users/3", nil)
	rec := httptest.NewRecorder()
	api.HandleDeleteAdmin(rec, req, "3")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrBadRequest, http.StatusBadRequest},
		{dashboard.ErrPasswordMismatch, http.StatusUnprocessableEntity},
		{statusError(http.StatusUnauthorized), http.StatusUnauthorized},
		{statusError(http.StatusConflict), http.StatusUnprocessableEntity},
		{statusError(http.StatusInternalServerError), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestSchemaViolationMapsTo422(t *testing.T) {
	err := dashboard.NewJSONSchemaValidator().Validate(dashboard.SchemaTicket, dashboard.TicketInput{EventID: 1, Name: "VIP", Price: -5})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if got := StatusFor(err); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
}

func TestSchemaViolationListsFields(t *testing.T) {
	verr := dashboard.NewJSONSchemaValidator().Validate(dashboard.SchemaTicket, dashboard.TicketInput{EventID: 1, Name: "VIP", Price: -5})
	create := &stubCommander[dashboard.TicketInput]{err: verr}
	api := &Handlers{Executor: &CommandExecutor{CreateTicketCommander: create}}
	req := httptest.NewRequest(http.MethodPost, "/tickets", bytes.NewReader([]byte(`{"event_id":1,"name":"VIP","price":-5}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.HandleCreateTicket(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Fields["price"] == "" {
		t.Fatalf("expected price field error, got %+v", body)
	}
}
