package export

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

var generatedAt = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func reportEvents() []dashboard.Event {
	return []dashboard.Event{
		{
			ID:     "1",
			Title:  "Festival Jazz",
			Date:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
			Status: dashboard.EventPublished,
			TicketTypes: []dashboard.TicketType{
				{Name: "Standard", Price: 10, QuantityTotal: 100, QuantitySold: 5},
				{Name: "VIP", Price: 20, QuantityTotal: 10, QuantitySold: 2},
			},
		},
		{
			ID:     "2",
			Title:  "Nuit Électro",
			Date:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			Status: dashboard.EventDraft,
		},
	}
}

type stubSource struct {
	events   []dashboard.Event
	accounts []dashboard.ClientAccount
	err      error
}

func (s stubSource) Events(context.Context) ([]dashboard.Event, error) { return s.events, s.err }
func (s stubSource) Accounts(context.Context) ([]dashboard.ClientAccount, error) {
	return s.accounts, s.err
}
func (s stubSource) Now() time.Time { return generatedAt }

func fixtureAccounts(t *testing.T) []dashboard.ClientAccount {
	t.Helper()
	fixtures, err := dashboard.LoadFixtures("")
	require.NoError(t, err)
	accounts, err := fixtures.ListAccounts(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, accounts)
	return accounts
}

func TestBuildStatisticsReportIsDeterministic(t *testing.T) {
	events := reportEvents()
	summary := dashboard.Summarize(events, events, generatedAt)

	first := BuildStatisticsReport(events, summary, generatedAt)
	second := BuildStatisticsReport(events, summary, generatedAt)
	assert.Equal(t, first, second)

	require.Len(t, first.Sections, 2)
	table := first.Sections[1].Table
	require.NotNil(t, table)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Festival Jazz", table.Rows[0][0])
	assert.Equal(t, "90 FCFA", table.Rows[0][3])
	assert.Equal(t, "Généré le 17/10/2026", first.Generated)
	assert.Empty(t, first.ID)
}

func TestBuildAccountDetailReportSignsAmounts(t *testing.T) {
	accounts := fixtureAccounts(t)
	detail, ok := dashboard.BuildAccountDetail(accounts, accounts[0].ID, dashboard.DateRange{})
	require.True(t, ok)

	doc := BuildAccountDetailReport(detail, generatedAt)
	assert.Equal(t, accounts[0].ClientName, doc.Subject)
	table := doc.Sections[1].Table
	require.Len(t, table.Rows, len(detail.Transactions))
	for _, row := range table.Rows {
		assert.Contains(t, []byte{'+', '-'}, row[3][0])
		assert.True(t, strings.HasSuffix(row[3], " €"), row[3])
	}
}

func TestAccountsReportUsesEuros(t *testing.T) {
	doc := BuildAccountsReport(fixtureAccounts(t), dashboard.AccountTotals{Balance: 1250, Spent: 90}, generatedAt)
	kpis := doc.Sections[0].KPIs
	require.Len(t, kpis, 3)
	assert.Equal(t, dashboard.FormatEuro(1250), kpis[0].Value)
	assert.Equal(t, "90,00 €", kpis[1].Value)
	for _, row := range doc.Sections[1].Table.Rows {
		assert.NotContains(t, row[2], "FCFA")
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "rapport_statistiques_2026-10-17.png", Filename(ReportStatistics, "", generatedAt, "png"))
	assert.Equal(t, "rapport_comptes_2026-10-17.pdf", Filename(ReportAccounts, "", generatedAt, "pdf"))
	assert.Equal(t, "compte_marie_dubois_2026-10-17.png", Filename(ReportAccountDetail, "Marie Dubois", generatedAt, "png"))
}

func TestPNGRendererDoublesResolution(t *testing.T) {
	events := reportEvents()
	doc := BuildStatisticsReport(events, dashboard.Summarize(events, events, generatedAt), generatedAt)

	var buf bytes.Buffer
	require.NoError(t, NewPNGRenderer().Render(&buf, doc))
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, pngWidth*pngScale, cfg.Width)
	assert.Zero(t, cfg.Height%pngScale)
}

func TestPDFRendererEmbedsHeader(t *testing.T) {
	doc := BuildAccountsReport(fixtureAccounts(t), dashboard.AccountTotals{Balance: 10}, generatedAt)
	doc.ID = "report-1"

	var buf bytes.Buffer
	require.NoError(t, NewPDFRenderer().Render(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Equal(t, "eventmaster:accounts:report-1:2026-10-17", VerificationPayload(doc))
}

func TestExporterBuildAndSave(t *testing.T) {
	exporter := NewExporter(Options{
		Source: stubSource{events: reportEvents(), accounts: fixtureAccounts(t)},
		NewID:  func() string { return "fixed-id" },
	})

	file, err := exporter.Build(context.Background(), Request{Report: ReportStatistics})
	require.NoError(t, err)
	assert.Equal(t, "rapport_statistiques_2026-10-17.png", file.Name)
	assert.Equal(t, "image/png", file.ContentType)
	assert.Equal(t, "fixed-id", file.ReportID)

	dir := t.TempDir()
	path, err := exporter.Export(context.Background(), Request{Report: ReportAccounts, Format: FormatPDF}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rapport_comptes_2026-10-17.pdf"), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not remain")
}

func TestExporterErrors(t *testing.T) {
	exporter := NewExporter(Options{Source: stubSource{accounts: fixtureAccounts(t)}})

	_, err := exporter.Build(context.Background(), Request{Report: ReportStatistics, Format: "gif"})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = exporter.Build(context.Background(), Request{Report: "sales"})
	assert.ErrorIs(t, err, ErrUnknownReport)

	_, err = exporter.Build(context.Background(), Request{Report: ReportAccountDetail, AccountID: "missing"})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	failing := NewExporter(Options{Source: stubSource{err: errors.New("HTTP 503")}})
	dir := t.TempDir()
	_, err = failing.Export(context.Background(), Request{Report: ReportStatistics}, dir)
	require.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestSaveFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "rapport_comptes_2026-10-17.png")
	require.NoError(t, os.Mkdir(blocker, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "keep"), []byte("x"), 0o644))

	_, err := Save(dir, File{Name: "rapport_comptes_2026-10-17.png", Data: []byte("png")})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestASCIIFold(t *testing.T) {
	assert.Equal(t, "Genere le 1 200,00 EUR", asciiFold("Généré le 1 200,00 €"))
}
