package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-ticketdash/components/dashboard"
)

// ListEvents fetches the events then their ticket types concurrently. A
// failed ticket fetch degrades to an empty list for that event.
func (c *HTTPClient) ListEvents(ctx context.Context) ([]dashboard.Event, error) {
	var list struct {
		Results []eventRecord `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "evenements/", nil, &list); err != nil {
		return nil, err
	}

	tickets := make([][]ticketRecord, len(list.Results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, rec := range list.Results {
		g.Go(func() error {
			items, err := c.eventTickets(gctx, string(rec.ID))
			if err != nil {
				c.log.WithError(err).WithField("event_id", string(rec.ID)).Warn("ticket fetch failed")
				return nil
			}
			tickets[i] = items
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := make([]dashboard.Event, len(list.Results))
	for i, rec := range list.Results {
		events[i] = mapEvent(rec, tickets[i])
	}
	return events, nil
}

func (c *HTTPClient) eventTickets(ctx context.Context, eventID string) ([]ticketRecord, error) {
	var resp struct {
		Tickets []ticketRecord `json:"tickets"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "evenements/"+eventID+"/tickets/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}

func eventForm(in dashboard.EventInput) *multipartForm {
	form := &multipartForm{}
	form.set("titre_evenement", in.Title)
	form.set("date", in.Date)
	form.set("heure_debut", in.StartTime)
	form.set("heure_fin", in.EndTime)
	form.set("lieu", in.Location)
	form.set("type_evenement", orDefault(in.EventType, defaultEventType))
	if !in.Image.Empty() {
		form.attach("image", in.Image.Filename, in.Image.Content)
	}
	return form
}

// CreateEvent posts a new event and returns its id.
func (c *HTTPClient) CreateEvent(ctx context.Context, in dashboard.EventInput) (string, error) {
	if in.Image.Empty() {
		return "", dashboard.ErrImageRequired
	}
	var resp struct {
		Message string      `json:"message"`
		Event   eventRecord `json:"evenement"`
	}
	if err := c.doMultipart(ctx, http.MethodPost, "evenements/", eventForm(in), &resp); err != nil {
		return "", err
	}
	return string(resp.Event.ID), nil
}

// UpdateEvent replaces the event fields. The image is optional.
func (c *HTTPClient) UpdateEvent(ctx context.Context, id string, in dashboard.EventInput) error {
	if id == "" {
		return fmt.Errorf("backend: update event: missing id")
	}
	return c.doMultipart(ctx, http.MethodPut, "evenements/"+id+"/", eventForm(in), nil)
}

type ticketPayload struct {
	Type    string  `json:"type"`
	Price   float64 `json:"prix"`
	Stock   int     `json:"stock"`
	EventID int     `json:"id_evenement"`
}

func newTicketPayload(in dashboard.TicketInput) ticketPayload {
	return ticketPayload{Type: in.Name, Price: in.Price, Stock: in.Stock, EventID: in.EventID}
}

// CreateTicket adds a ticket type to an event.
func (c *HTTPClient) CreateTicket(ctx context.Context, in dashboard.TicketInput) error {
	return c.doJSON(ctx, http.MethodPost, "tickets/", newTicketPayload(in), nil)
}

// UpdateTicket replaces a ticket type.
func (c *HTTPClient) UpdateTicket(ctx context.Context, id string, in dashboard.TicketInput) error {
	return c.doJSON(ctx, http.MethodPut, "tickets/"+id+"/", newTicketPayload(in), nil)
}

// DeleteTicket removes a ticket type.
func (c *HTTPClient) DeleteTicket(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "tickets/"+id+"/", nil, nil)
}

func itoa(id int) string { return strconv.Itoa(id) }
