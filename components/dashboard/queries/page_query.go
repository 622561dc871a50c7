package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-ticketdash/components/dashboard"
)

type pageViewer interface {
	View(ctx context.Context, req dashboard.PageRequest) (any, error)
}

// PageQuery resolves the view model of a dashboard page.
type PageQuery struct {
	controller pageViewer
}

// NewPageQuery builds the query.
func NewPageQuery(controller pageViewer) *PageQuery {
	return &PageQuery{controller: controller}
}

var _ gocommand.Querier[dashboard.PageRequest, any] = (*PageQuery)(nil)

// Query builds the page view for the request.
func (q *PageQuery) Query(ctx context.Context, req dashboard.PageRequest) (any, error) {
	return q.controller.View(ctx, req)
}
