// Package export turns dashboard aggregates into printable reports and
// renders them as PNG or PDF files.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

// Report identifies a document template.
type Report string

const (
	ReportStatistics    Report = "statistics"
	ReportAccounts      Report = "accounts"
	ReportAccountDetail Report = "account"
)

const (
	organization    = "EventMaster Inc."
	confidentiality = "Confidentialité: Interne"
)

var footer = []string{
	"EventMaster - Plateforme de Gestion Événementielle",
	"Ce document est confidentiel et destiné à un usage interne uniquement.",
}

// KPI is a labelled headline figure.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is a header row plus string cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Section is a titled block of a report.
type Section struct {
	Heading string `json:"heading"`
	Text    string `json:"text,omitempty"`
	KPIs    []KPI  `json:"kpis,omitempty"`
	Table   *Table `json:"table,omitempty"`
}

// Document is the renderer-independent description of a report. ID is set
// by the Exporter; builders leave it empty.
type Document struct {
	ID              string    `json:"id,omitempty"`
	Report          Report    `json:"report"`
	Subject         string    `json:"subject,omitempty"`
	Title           string    `json:"title"`
	Generated       string    `json:"generated"`
	Organization    string    `json:"organization"`
	Confidentiality string    `json:"confidentiality"`
	Sections        []Section `json:"sections"`
	Footer          []string  `json:"footer"`
	GeneratedAt     time.Time `json:"generated_at"`
}

func newDocument(report Report, title string, generatedAt time.Time) Document {
	return Document{
		Report:          report,
		Title:           title,
		Generated:       "Généré le " + dashboard.FormatShortDate(generatedAt),
		Organization:    organization,
		Confidentiality: confidentiality,
		Footer:          append([]string(nil), footer...),
		GeneratedAt:     generatedAt,
	}
}

// BuildStatisticsReport describes the performance report over the filtered
// events and their summary.
func BuildStatisticsReport(events []dashboard.Event, summary dashboard.Summary, generatedAt time.Time) Document {
	doc := newDocument(ReportStatistics, "Rapport de Performance", generatedAt)
	overview := Section{
		Heading: "Vue d'ensemble Exécutive",
		Text: fmt.Sprintf("Ce rapport présente une analyse détaillée des performances de la plateforme EventMaster pour la période en cours. "+
			"Avec un chiffre d'affaires total de %s et %s billets vendus, le taux de remplissage global s'établit à %s.",
			dashboard.FormatCurrency(summary.Revenue),
			dashboard.FormatNumber(summary.TicketsSold),
			dashboard.FormatPercent(summary.OccupancyRate)),
		KPIs: []KPI{
			{Label: "Revenus", Value: dashboard.FormatCurrency(summary.Revenue)},
			{Label: "Billets Vendus", Value: dashboard.FormatNumber(summary.TicketsSold)},
			{Label: "Remplissage", Value: dashboard.FormatPercent(summary.OccupancyRate)},
		},
	}
	table := &Table{Columns: []string{"Événement", "Date", "Ventes", "Revenu", "Statut"}}
	for _, e := range events {
		table.Rows = append(table.Rows, []string{
			e.Title,
			dashboard.FormatShortDate(e.Date),
			dashboard.FormatNumber(dashboard.EventSold(e)),
			dashboard.FormatCurrency(dashboard.EventRevenue(e)),
			string(e.Status),
		})
	}
	doc.Sections = []Section{
		overview,
		{Heading: "Détail des Performances par Événement", Table: table},
	}
	return doc
}

// BuildAccountsReport describes the accounts listing. Totals are passed in so
// they can cover every account while the table shows the filtered ones.
func BuildAccountsReport(accounts []dashboard.ClientAccount, totals dashboard.AccountTotals, generatedAt time.Time) Document {
	doc := newDocument(ReportAccounts, "Rapport des Comptes", generatedAt)
	table := &Table{Columns: []string{"Client", "Email", "Solde", "Dépensé", "Transactions"}}
	for _, a := range accounts {
		table.Rows = append(table.Rows, []string{
			a.ClientName,
			a.Email,
			dashboard.FormatEuro(a.Balance),
			dashboard.FormatEuro(a.TotalSpent),
			strconv.Itoa(a.TotalTransactions),
		})
	}
	doc.Sections = []Section{
		{
			Heading: "Vue d'ensemble",
			KPIs: []KPI{
				{Label: "Solde Total", Value: dashboard.FormatEuro(totals.Balance)},
				{Label: "Dépenses Totales", Value: dashboard.FormatEuro(totals.Spent)},
				{Label: "Comptes Actifs", Value: dashboard.FormatNumber(len(accounts))},
			},
		},
		{Heading: "Détail des Comptes", Table: table},
	}
	return doc
}

// BuildAccountDetailReport describes one account and its transactions.
func BuildAccountDetailReport(detail dashboard.AccountDetail, generatedAt time.Time) Document {
	doc := newDocument(ReportAccountDetail, "Détails du Compte", generatedAt)
	doc.Subject = detail.Account.ClientName
	table := &Table{Columns: []string{"Date", "Description", "Type", "Montant", "Statut"}}
	for _, tx := range dashboard.SortTransactionsByDate(detail.Transactions) {
		amount := dashboard.FormatEuro(tx.Amount)
		kind := "Crédit"
		if tx.Type == dashboard.TransactionDebit {
			amount = "-" + amount
			kind = "Débit"
		} else {
			amount = "+" + amount
		}
		table.Rows = append(table.Rows, []string{
			dashboard.FormatShortDate(tx.Date),
			tx.Description,
			kind,
			amount,
			tx.Status.Label(),
		})
	}
	doc.Sections = []Section{
		{
			Heading: "Informations Client",
			Text:    detail.Account.ClientName + " · " + detail.Account.Email,
			KPIs: []KPI{
				{Label: "Solde Actuel", Value: dashboard.FormatEuro(detail.Account.Balance)},
				{Label: "Total Dépensé", Value: dashboard.FormatEuro(detail.Account.TotalSpent)},
				{Label: "Transactions", Value: strconv.Itoa(detail.Account.TotalTransactions)},
			},
		},
		{
			Heading: fmt.Sprintf("Historique des Transactions (%d)", len(detail.Transactions)),
			Table:   table,
		},
	}
	return doc
}
