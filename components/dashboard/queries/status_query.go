package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-ticketdash/components/dashboard"
)

type statusReporter interface {
	Status() []dashboard.CollectionStatus
}

// StatusInput is empty; the query reports every collection.
type StatusInput struct{}

// StatusQuery reports loading and error state of the collections.
type StatusQuery struct {
	service statusReporter
}

// NewStatusQuery builds the query.
func NewStatusQuery(service statusReporter) *StatusQuery {
	return &StatusQuery{service: service}
}

var _ gocommand.Querier[StatusInput, []dashboard.CollectionStatus] = (*StatusQuery)(nil)

// Query returns the collection statuses.
func (q *StatusQuery) Query(context.Context, StatusInput) ([]dashboard.CollectionStatus, error) {
	return q.service.Status(), nil
}
