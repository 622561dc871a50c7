package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 8

// BroadcastHook pushes invalidations to open pages so they re-fetch the
// collections they show. A subscriber whose buffer is full misses the event.
type BroadcastHook struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64
}

type subscriber struct {
	ch        chan InvalidationEvent
	resources []Resource
}

func (s *subscriber) wants(r Resource) bool {
	return len(s.resources) == 0 || slices.Contains(s.resources, r)
}

// NewBroadcastHook creates an empty hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: map[uint64]*subscriber{}}
}

var _ RefreshHook = (*BroadcastHook)(nil)

// Invalidated delivers event to every subscriber interested in its resource.
func (h *BroadcastHook) Invalidated(_ context.Context, event InvalidationEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.wants(event.Resource) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of open subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Subscribe opens a subscription limited to resources, or to every resource
// when none is given. The returned cancel closes the channel and is safe to
// call twice.
func (h *BroadcastHook) Subscribe(resources ...Resource) (<-chan InvalidationEvent, func()) {
	sub := &subscriber{ch: make(chan InvalidationEvent, subscriberBuffer), resources: resources}
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	return sub.ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
}

// ParseResources reads a comma separated resource list such as
// "events,users". Blank items are skipped.
func ParseResources(raw string) []Resource {
	var out []Resource
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, Resource(part))
		}
	}
	return out
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWebSocket streams invalidations as JSON frames. The optional
// "resource" query parameter narrows the subscription.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe(ParseResources(r.URL.Query().Get("resource"))...)
	defer cancel()
	h.pump(r.Context(), events, func(event InvalidationEvent) error {
		return conn.WriteJSON(event)
	})
}

// ServeSSE streams invalidations as Server-Sent Events named after the
// resource, with the event as JSON data.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")

	events, cancel := h.Subscribe(ParseResources(r.URL.Query().Get("resource"))...)
	defer cancel()

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}
	w.WriteHeader(http.StatusOK)
	flush()

	h.pump(r.Context(), events, func(event InvalidationEvent) error {
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte("event: " + string(event.Resource) + "\ndata: " + string(data) + "\n\n")); err != nil {
			return err
		}
		flush()
		return nil
	})
}

func (h *BroadcastHook) pump(ctx context.Context, events <-chan InvalidationEvent, send func(InvalidationEvent) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok || send(event) != nil {
				return
			}
		}
	}
}
