package dashboard

import (
	"cmp"
	"slices"
)

// Ranking limits used by the views.
const (
	TopEventsLimit          = 3
	DashboardTopEventsLimit = 5
	TopClientsLimit         = 3
)

// RankedEvent is an event annotated with its derived totals.
type RankedEvent struct {
	Event
	Revenue     float64 `json:"revenue"`
	Sold        int     `json:"sold"`
	Capacity    int     `json:"capacity"`
	SellThrough int     `json:"sell_through"`
}

// RankEvent derives the totals shown by leaderboards.
func RankEvent(e Event) RankedEvent {
	return RankedEvent{
		Event:       e,
		Revenue:     EventRevenue(e),
		Sold:        EventSold(e),
		Capacity:    EventCapacity(e),
		SellThrough: SellThrough(e),
	}
}

// TopEvents stable-sorts events by revenue descending and keeps the first
// limit entries. showAll or a non-positive limit keeps everything.
func TopEvents(events []Event, limit int, showAll bool) []RankedEvent {
	ranked := make([]RankedEvent, len(events))
	for i, e := range events {
		ranked[i] = RankEvent(e)
	}
	slices.SortStableFunc(ranked, func(a, b RankedEvent) int { return cmp.Compare(b.Revenue, a.Revenue) })
	return truncate(ranked, limit, showAll)
}

// TopAmbassadors ranks clients by referrals descending.
func TopAmbassadors(clients []Client, showAll bool) []Client {
	return truncate(SortClients(clients, ClientSortReferrals), TopClientsLimit, showAll)
}

// TopSpenders ranks clients by total spent descending.
func TopSpenders(clients []Client, showAll bool) []Client {
	return truncate(SortClients(clients, ClientSortSpent), TopClientsLimit, showAll)
}

func truncate[T any](items []T, limit int, showAll bool) []T {
	if showAll || limit <= 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}
