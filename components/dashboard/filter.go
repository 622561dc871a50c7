package dashboard

import (
	"strings"
	"time"
)

// DateRange is an inclusive day range. A zero bound imposes no constraint.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	if !r.From.IsZero() && day.Before(truncateDay(r.From)) {
		return false
	}
	if !r.To.IsZero() && day.After(truncateDay(r.To)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func matchesAll(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, FilterAll)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesSearch(term string, fields ...string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	for _, field := range fields {
		if containsFold(field, term) {
			return true
		}
	}
	return false
}

// EventFilter is the conjunction of the event predicates.
type EventFilter struct {
	Search string
	Status string
	Type   string
	Range  DateRange
}

// Match applies every predicate to e.
func (f EventFilter) Match(e Event) bool {
	if !matchesSearch(f.Search, e.Title, e.Location) {
		return false
	}
	if !matchesAll(f.Status) && string(e.Status) != f.Status {
		return false
	}
	if !matchesAll(f.Type) && e.EventType != f.Type {
		return false
	}
	return f.Range.Contains(e.Date)
}

// FilterEvents returns the events matching f, in input order.
func FilterEvents(events []Event, f EventFilter) []Event {
	return filterSlice(events, f.Match)
}

// RangePreset selects the statistics window.
type RangePreset string

const (
	RangeWeek  RangePreset = "week"
	RangeMonth RangePreset = "month"
	RangeYear  RangePreset = "year"
	RangeAll   RangePreset = "all"
)

// Cutoff returns the earliest date kept by the preset, and false for "all".
func (p RangePreset) Cutoff(now time.Time) (time.Time, bool) {
	switch p {
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, -1, 0), true
	case RangeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// StatisticsFilter narrows the statistics view by status and date preset.
// Status "ended" keeps unpublished events already in the past.
type StatisticsFilter struct {
	Status string
	Range  RangePreset
}

// Apply filters events relative to now.
func (f StatisticsFilter) Apply(events []Event, now time.Time) []Event {
	cutoff, bounded := f.Range.Cutoff(now)
	return filterSlice(events, func(e Event) bool {
		switch {
		case matchesAll(f.Status):
		case f.Status == string(EventEnded):
			if e.Status == EventPublished || !e.Date.Before(now) {
				return false
			}
		case string(e.Status) != f.Status:
			return false
		}
		return !bounded || !e.Date.Before(cutoff)
	})
}

// Availability filters the ticket-sales view.
type Availability string

const (
	AvailabilitySoldOut   Availability = "sold_out"
	AvailabilityAvailable Availability = "available"
)

// TicketSalesFilter narrows the ticket-sales view.
type TicketSalesFilter struct {
	Search       string
	Range        DateRange
	Availability Availability
}

// Match applies the predicates to e.
func (f TicketSalesFilter) Match(e Event) bool {
	if !matchesSearch(f.Search, e.Title) {
		return false
	}
	if !f.Range.Contains(e.Date) {
		return false
	}
	switch f.Availability {
	case AvailabilitySoldOut:
		return SoldOut(e)
	case AvailabilityAvailable:
		return !SoldOut(e)
	}
	return true
}

// ClientFilter narrows the clients view.
type ClientFilter struct {
	Search string
	Status string
}

// Match applies the predicates to c.
func (f ClientFilter) Match(c Client) bool {
	if !matchesSearch(f.Search, c.Name, c.Email) {
		return false
	}
	return matchesAll(f.Status) || string(c.Status) == f.Status
}

// BalanceFilter narrows accounts by balance bucket.
type BalanceFilter string

const (
	BalancePositive BalanceFilter = "positive"
	BalanceLow      BalanceFilter = "low"
)

// LowBalanceThreshold separates positive from low balances.
const LowBalanceThreshold = 500

// AccountFilter narrows the accounts view.
type AccountFilter struct {
	Search  string
	Balance BalanceFilter
}

// Match applies the predicates to a.
func (f AccountFilter) Match(a ClientAccount) bool {
	if !matchesSearch(f.Search, a.ClientName, a.Email) {
		return false
	}
	switch f.Balance {
	case BalancePositive:
		return a.Balance > LowBalanceThreshold
	case BalanceLow:
		return a.Balance <= LowBalanceThreshold
	}
	return true
}

// FilterTransactions keeps transactions inside the inclusive range.
func FilterTransactions(txs []Transaction, r DateRange) []Transaction {
	return filterSlice(txs, func(tx Transaction) bool { return r.Contains(tx.Date) })
}

// UserFilter narrows the users view.
type UserFilter struct {
	Search string
	Role   string
}

// Match applies the predicates to u.
func (f UserFilter) Match(u User) bool {
	if !matchesSearch(f.Search, u.Name, u.Email) {
		return false
	}
	return matchesAll(f.Role) || string(u.Role) == f.Role
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
