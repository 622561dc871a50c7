package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	app "github.com/goliatone/go-ticketdash/pkg/dashboard"
	"github.com/goliatone/go-ticketdash/pkg/config"
	"github.com/goliatone/go-ticketdash/pkg/logging"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config  string    `type:"path" help:"Optional YAML configuration file."`
	EnvFile []string  `name:"env-file" default:".env" help:"Dotenv files loaded before the environment (repeatable)."`
	Out     io.Writer `kong:"-"`
}

type cli struct {
	Globals

	Serve  serveCmd  `cmd:"" help:"Serve the admin dashboard over HTTP."`
	Login  loginCmd  `cmd:"" help:"Sign in as an administrator and persist the session."`
	Logout logoutCmd `cmd:"" help:"Clear the persisted session."`
	Whoami whoamiCmd `cmd:"" help:"Show the signed-in administrator."`
	Stats  statsCmd  `cmd:"" help:"Print the statistics KPIs."`
	Export exportCmd `cmd:"" help:"Export a statistics or accounts report as PNG or PDF."`
	Ask    askCmd    `cmd:"" help:"Ask the sales assistant for an analysis or an answer."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithCorrelationID(ctx, "")

	var c cli
	c.Out = os.Stdout
	kctx := kong.Parse(&c,
		kong.Name("eventmaster"),
		kong.Description("Administration dashboard for the EventMaster ticketing platform."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&c.Globals)
	kctx.FatalIfErrorf(err)
}

// load resolves the configuration and assembles the application with its
// persisted session restored.
func (g *Globals) load(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(config.LoadOptions{EnvFiles: g.EnvFile, ConfigFile: g.Config})
	if err != nil {
		return nil, err
	}
	a, err := app.New(app.Options{Config: cfg})
	if err != nil {
		return nil, err
	}
	if _, err := a.Restore(ctx); err != nil {
		return nil, fmt.Errorf("eventmaster: restore session: %w", err)
	}
	return a, nil
}

func (g *Globals) printf(format string, args ...any) {
	out := g.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}
