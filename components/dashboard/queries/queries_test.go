package queries

import (
	"context"
	"testing"

	dashboard "github.com/goliatone/go-ticketdash/components/dashboard"
)

type stubController struct {
	calls int
	last  dashboard.PageRequest
}

func (s *stubController) View(_ context.Context, req dashboard.PageRequest) (any, error) {
	s.calls++
	s.last = req
	return map[string]string{"page": string(req.Page)}, nil
}

type stubStatus struct{}

func (stubStatus) Status() []dashboard.CollectionStatus {
	return []dashboard.CollectionStatus{{Resource: dashboard.ResourceEvents, Count: 3}}
}

func TestPageQuery(t *testing.T) {
	controller := &stubController{}
	query := NewPageQuery(controller)
	_, err := query.Query(context.Background(), dashboard.PageRequest{Page: dashboard.PageEvents})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if controller.calls != 1 {
		t.Fatalf("expected 1 call, got %d", controller.calls)
	}
	if controller.last.Page != dashboard.PageEvents {
		t.Fatalf("expected events page, got %s", controller.last.Page)
	}
}

func TestStatusQuery(t *testing.T) {
	statuses, err := NewStatusQuery(stubStatus{}).Query(context.Background(), StatusInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(statuses) != 1 || statuses[0].Count != 3 {
		t.Fatalf("unexpected statuses %+v", statuses)
	}
}
