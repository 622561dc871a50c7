// Package backend talks to the ticketing REST API and maps its records into
// dashboard view models.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://localhost:8000/api/"

const defaultTicketConcurrency = 8

var errMissingBaseURL = errors.New("backend: base url is required")

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

// Token returns the token.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// APIError is a non-2xx response of the backend.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: %s %s: HTTP %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("backend: %s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// HTTPStatus exposes the upstream status to transports.
func (e *APIError) HTTPStatus() int {
	return e.Status
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// HTTPConfig configures the REST client.
type HTTPConfig struct {
	BaseURL           string
	Tokens            TokenSource
	HTTPClient        *http.Client
	Timeout           time.Duration
	TicketConcurrency int
	Logger            logrus.FieldLogger
	Clock             func() time.Time
}

// HTTPClient is the REST client. It implements the dashboard repositories and
// the command writers.
type HTTPClient struct {
	base        *url.URL
	tokens      TokenSource
	client      *http.Client
	concurrency int
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewHTTPClient validates cfg and builds a client.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errMissingBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	concurrency := cfg.TicketConcurrency
	if concurrency <= 0 {
		concurrency = defaultTicketConcurrency
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &HTTPClient{
		base:        base,
		tokens:      cfg.Tokens,
		client:      httpClient,
		concurrency: concurrency,
		log:         logger.WithField("component", "backend"),
		now:         clock,
	}, nil
}

// Origin returns scheme://host of the API, used to absolutize media paths.
func (c *HTTPClient) Origin() string {
	return c.base.Scheme + "://" + c.base.Host
}

func (c *HTTPClient) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return c.base.String() + path
	}
	return c.base.ResolveReference(ref).String()
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, body, target)
}

// multipartForm collects fields and at most one file per key.
type multipartForm struct {
	fields []formField
	files  []formFile
}

type formField struct{ key, value string }

type formFile struct {
	key, filename string
	content       []byte
}

func (f *multipartForm) set(key, value string) {
	f.fields = append(f.fields, formField{key, value})
}

func (f *multipartForm) attach(key, filename string, content []byte) {
	f.files = append(f.files, formFile{key, filename, content})
}

func (f *multipartForm) encode() (string, *bytes.Buffer, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.key, field.value); err != nil {
			return "", nil, err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.key, file.filename)
		if err != nil {
			return "", nil, err
		}
		if _, err := part.Write(file.content); err != nil {
			return "", nil, err
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), &buf, nil
}

func (c *HTTPClient) doMultipart(ctx context.Context, method, path string, form *multipartForm, target any) error {
	contentType, body, err := form.encode()
	if err != nil {
		return fmt.Errorf("backend: encode form: %w", err)
	}
	return c.do(ctx, method, path, contentType, body, target)
}

func (c *HTTPClient) do(ctx context.Context, method, path, contentType string, body io.Reader, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("backend: token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: errorMessage(raw),
		}
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return nil
}

// errorMessage extracts message, detail or error from a JSON error body and
// falls back to the trimmed raw body.
func errorMessage(raw []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, key := range []string{"message", "detail", "error"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// page is the paginated list envelope.
type page[T any] struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []T    `json:"results"`
}

// listAll follows next links until the last page.
func listAll[T any](ctx context.Context, c *HTTPClient, path string) ([]T, error) {
	var out []T
	seen := map[string]bool{}
	for path != "" && !seen[path] {
		seen[path] = true
		var p page[T]
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Results...)
		path = p.Next
	}
	return out, nil
}
