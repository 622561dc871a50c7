// Package logging configures logrus for the dashboard and adapts it to the
// telemetry, refresh and activity hooks.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CorrelationID is the field carrying the request correlation id.
const CorrelationID = "correlation_id"

type correlationKey struct{}

// Options configures New.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds a logger. Format is "json" or "text".
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}
	return logger, nil
}

// ContextWithCorrelationID stores id on ctx, generating one when id is empty.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFrom returns the id stored on ctx, if any.
func CorrelationIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// WithCorrelationID returns an entry tagged with the id carried by ctx.
func WithCorrelationID(ctx context.Context, logger logrus.FieldLogger) *logrus.Entry {
	entry := logger.WithFields(logrus.Fields{})
	if id := CorrelationIDFrom(ctx); id != "" {
		entry = entry.WithField(CorrelationID, id)
	}
	return entry
}
