package main

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-ticketdash/components/dashboard"
	"github.com/goliatone/go-ticketdash/pkg/assistant"
	"github.com/goliatone/go-ticketdash/pkg/export"
	"github.com/goliatone/go-ticketdash/pkg/session"
)

type serveCmd struct {
	BasePath  string `name:"base-path" default:"/admin" help:"Mount point of the dashboard routes."`
	Transport string `default:"fiber" enum:"fiber,http" help:"HTTP stack: fiber (go-router) or the net/http handler."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.load(ctx)
	if err != nil {
		return err
	}
	if cmd.Transport == "http" {
		return a.ListenAndServe(ctx, cmd.BasePath)
	}
	return a.Serve(ctx, cmd.BasePath)
}

type loginCmd struct {
	Email    string `required:"" help:"Administrator email."`
	Password string `required:"" env:"TICKETDASH_PASSWORD" help:"Administrator password."`
}

func (cmd *loginCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.load(ctx)
	if err != nil {
		return err
	}
	profile, err := a.Session.Login(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return err
	}
	g.printf("✓ Connecté en tant que %s (%s)\n", profile.DisplayName(), profile.Role)
	return nil
}

type logoutCmd struct{}

func (cmd *logoutCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.load(ctx)
	if err != nil {
		return err
	}
	if err := a.Session.Logout(ctx); err != nil {
		return err
	}
	g.printf("✓ Déconnecté\n")
	return nil
}

type whoamiCmd struct{}

func (cmd *whoamiCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.load(ctx)
	if err != nil {
		return err
	}
	state := a.Session.State()
	if !state.Authenticated {
		return session.ErrNotAuthenticated
	}
	g.printf("%s <%s>\nRôle: %s\n", state.Admin.DisplayName(), state.Admin.Email, state.Admin.Role)
	if !state.Expiration.IsZero() {
		g.printf("Expire le: %s\n", state.Expiration.Format("2006-01-02 15:04"))
	}
	if a.Session.Expired() {
		g.printf("Session expirée, reconnectez-vous.\n")
	}
	return nil
}

type statsCmd struct {
	Status string `default:"all" help:"Event status filter (all, published, draft, ended)."`
	Range  string `default:"all" enum:"week,month,year,all" help:"Date window."`
}

func (cmd *statsCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.load(ctx)
	if err != nil {
		return err
	}
	filter := dashboard.StatisticsFilter{Status: cmd.Status, Range: dashboard.RangePreset(cmd.Range)}
	view, err := a.Service.Statistics(ctx, dashboard.ViewerContext{}, filter, false)
	if err != nil {
		return err
	}
	s := view.Summary
	g.printf("Revenus totaux:      %s\n", dashboard.FormatCurrency(s.Revenue))
	g.printf("Billets vendus:      %s / %s\n", dashboard.FormatNumber(s.TicketsSold), dashboard.FormatNumber(s.Capacity))
	g.printf("Taux d'occupation:   %s\n", dashboard.FormatPercent(s.OccupancyRate))
	g.printf("Billets validés:     %s\n", dashboard.FormatNumber(s.TicketsValidated))
	g.printf("Billets frauduleux:  %s\n", dashboard.FormatNumber(s.FraudulentTickets))
	g.printf("Événements publiés:  %s\n", dashboard.FormatNumber(s.PublishedEvents))
	for i, e := range view.TopEvents {
		g.printf("%2d. %-30s %s\n", i+1, e.Title, dashboard.FormatCurrency(e.Revenue))
	}
	return nil
}

type exportCmd struct {
	Report  string `default:"statistics" enum:"statistics,accounts,account" help:"Report to build."`
	Format  string `default:"pdf" enum:"png,pdf" help:"Output format."`
	Account string `help:"Account ID, required for the account report."`
	Status  string `default:"all" help:"Statistics status filter."`
	Range   string `default:"all" enum:"week,month,year,all" help:"Statistics date window."`
	Search  string `help:"Accounts search term."`
	Dir     string `type:"path" help:"Output directory (defaults to export.dir)."`
}

func (cmd *exportCmd) request() (export.Request, error) {
	req := export.Request{
		Report:     export.Report(cmd.Report),
		Format:     export.Format(cmd.Format),
		Statistics: dashboard.StatisticsFilter{Status: cmd.Status, Range: dashboard.RangePreset(cmd.Range)},
		Accounts:   dashboard.AccountFilter{Search: cmd.Search},
		AccountID:  cmd.Account,
	}
	if req.Report == export.ReportAccountDetail && strings.TrimSpace(cmd.Account) == "" {
		return export.Request{}, errors.New("eventmaster: --account is required for the account report")
	}
	return req, nil
}

func (cmd *exportCmd) Run(ctx context.Context, g *Globals) error {
	req, err := cmd.request()
	if err != nil {
		return err
	}
	a, err := g.load(ctx)
	if err != nil {
		return err
	}
	dir := cmd.Dir
	if dir == "" {
		dir = a.Config.Export.Dir
	}
	path, err := a.Exporter.Export(ctx, req, dir)
	if err != nil {
		return err
	}
	g.printf("✓ Rapport enregistré: %s\n", path)
	return nil
}

type askCmd struct {
	Question []string `arg:"" optional:"" help:"Question for the assistant. Without one, a sales analysis is printed."`
}

func (cmd *askCmd) Run(ctx context.Context, g *Globals) error {
	a, err := g.load(ctx)
	if err != nil {
		return err
	}
	events, err := a.Service.Events(ctx)
	if err != nil {
		return err
	}
	sales, err := a.Service.Sales(ctx)
	if err != nil {
		return err
	}
	question := strings.TrimSpace(strings.Join(cmd.Question, " "))
	if question == "" {
		p := a.Assistant.SalesAnalysis(ctx, events, sales)
		g.printf("%s\n\nAction suggérée: %s\nRevenus projetés: %s\nConfiance: %.0f %%\n",
			p.Summary, p.SuggestedAction, dashboard.FormatCurrency(p.ProjectedRevenue), p.ConfidenceScore)
		return nil
	}
	answer := a.Assistant.Chat(ctx, []assistant.Message{{Role: "user", Content: question}}, events, sales)
	g.printf("%s\n", answer)
	return nil
}
