package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ettle/strcase"
	"github.com/google/uuid"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

// Format is an output file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

var (
	ErrUnknownFormat   = errors.New("export: unknown format")
	ErrUnknownReport   = errors.New("export: unknown report")
	ErrAccountNotFound = errors.New("export: account not found")
	errMissingSource   = errors.New("export: data source not configured")
)

// Renderer writes a document in one format.
type Renderer interface {
	Render(w io.Writer, doc Document) error
	Format() Format
	ContentType() string
}

// Source provides the data shown on screen. *dashboard.Service satisfies it.
type Source interface {
	Events(ctx context.Context) ([]dashboard.Event, error)
	Accounts(ctx context.Context) ([]dashboard.ClientAccount, error)
	Now() time.Time
}

// Request selects a report, its filters and the output format.
type Request struct {
	Report     Report
	Format     Format
	Statistics dashboard.StatisticsFilter
	Accounts   dashboard.AccountFilter
	SortBy     dashboard.AccountSortKey
	Order      dashboard.SortOrder
	AccountID  string
	Range      dashboard.DateRange
}

// File is a rendered report ready to be downloaded or saved.
type File struct {
	Name        string
	ContentType string
	ReportID    string
	Data        []byte
}

// Options configures an Exporter.
type Options struct {
	Source    Source
	Renderers []Renderer
	NewID     func() string
}

// Exporter builds, renders and saves reports.
type Exporter struct {
	source    Source
	renderers map[Format]Renderer
	newID     func() string
}

// NewExporter returns an exporter. PNG and PDF renderers are registered when
// none are given.
func NewExporter(opts Options) *Exporter {
	renderers := opts.Renderers
	if len(renderers) == 0 {
		renderers = []Renderer{NewPNGRenderer(), NewPDFRenderer()}
	}
	e := &Exporter{
		source:    opts.Source,
		renderers: make(map[Format]Renderer, len(renderers)),
		newID:     opts.NewID,
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	for _, r := range renderers {
		e.renderers[r.Format()] = r
	}
	return e
}

// Document builds the report described by req and stamps a report ID.
func (e *Exporter) Document(ctx context.Context, req Request) (Document, error) {
	if e.source == nil {
		return Document{}, errMissingSource
	}
	now := e.source.Now()
	var doc Document
	switch req.Report {
	case ReportStatistics:
		events, err := e.source.Events(ctx)
		if err != nil {
			return Document{}, fmt.Errorf("export: load events: %w", err)
		}
		filtered := req.Statistics.Apply(events, now)
		doc = BuildStatisticsReport(filtered, dashboard.Summarize(filtered, events, now), now)
	case ReportAccounts, ReportAccountDetail:
		accounts, err := e.source.Accounts(ctx)
		if err != nil {
			return Document{}, fmt.Errorf("export: load accounts: %w", err)
		}
		if req.Report == ReportAccounts {
			filtered := dashboard.SortAccounts(filterAccounts(accounts, req.Accounts), req.SortBy, req.Order)
			doc = BuildAccountsReport(filtered, dashboard.SummarizeAccounts(accounts), now)
			break
		}
		detail, ok := dashboard.BuildAccountDetail(accounts, req.AccountID, req.Range)
		if !ok {
			return Document{}, fmt.Errorf("%w: %s", ErrAccountNotFound, req.AccountID)
		}
		doc = BuildAccountDetailReport(detail, now)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownReport, req.Report)
	}
	doc.ID = e.newID()
	return doc, nil
}

// Render renders doc in format.
func (e *Exporter) Render(doc Document, format Format) (File, error) {
	renderer, ok := e.renderers[format]
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		return File{}, err
	}
	return File{
		Name:        Filename(doc.Report, doc.Subject, doc.GeneratedAt, string(format)),
		ContentType: renderer.ContentType(),
		ReportID:    doc.ID,
		Data:        buf.Bytes(),
	}, nil
}

// Build builds and renders the requested report in memory.
func (e *Exporter) Build(ctx context.Context, req Request) (File, error) {
	if req.Format == "" {
		req.Format = FormatPNG
	}
	if _, ok := e.renderers[req.Format]; !ok {
		return File{}, fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}
	doc, err := e.Document(ctx, req)
	if err != nil {
		return File{}, err
	}
	return e.Render(doc, req.Format)
}

// Export builds the report and saves it under dir, returning the file path.
func (e *Exporter) Export(ctx context.Context, req Request, dir string) (string, error) {
	file, err := e.Build(ctx, req)
	if err != nil {
		return "", err
	}
	return Save(dir, file)
}

// Save writes file into dir through a temporary file so that a failed write
// never leaves a partial report behind.
func Save(dir string, file File) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("export: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func(cause error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", cause
	}
	if _, err := tmp.Write(file.Data); err != nil {
		return cleanup(fmt.Errorf("export: write %s: %w", file.Name, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("export: close %s: %w", file.Name, err)
	}
	target := filepath.Join(dir, file.Name)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("export: rename %s: %w", file.Name, err)
	}
	return target, nil
}

// Filename returns "<report-name>_<YYYY-MM-DD>.<ext>". Account detail reports
// embed the snake-cased client name.
func Filename(report Report, subject string, generatedAt time.Time, ext string) string {
	name := "rapport"
	switch report {
	case ReportStatistics:
		name = "rapport_statistiques"
	case ReportAccounts:
		name = "rapport_comptes"
	case ReportAccountDetail:
		name = "compte"
		if slug := strcase.ToSnake(subject); slug != "" {
			name += "_" + slug
		}
	}
	return fmt.Sprintf("%s_%s.%s", name, generatedAt.Format("2006-01-02"), ext)
}

func filterAccounts(accounts []dashboard.ClientAccount, f dashboard.AccountFilter) []dashboard.ClientAccount {
	out := make([]dashboard.ClientAccount, 0, len(accounts))
	for _, a := range accounts {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
