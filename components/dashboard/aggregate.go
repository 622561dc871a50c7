package dashboard

import (
	"math"
	"time"
)

// Summary holds the KPIs derived from a set of events.
type Summary struct {
	Revenue           float64 `json:"revenue"`
	TicketsSold       int     `json:"tickets_sold"`
	Capacity          int     `json:"capacity"`
	OccupancyRate     float64 `json:"occupancy_rate"`
	TicketsValidated  int     `json:"tickets_validated"`
	FraudulentTickets int     `json:"fraudulent_tickets"`
	PublishedEvents   int     `json:"published_events"`
}

// TypeBreakdown is the number of tickets sold for one ticket type name.
type TypeBreakdown struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// EventRevenue returns Σ price×sold over the event's ticket types.
func EventRevenue(e Event) float64 {
	var total float64
	for _, t := range e.TicketTypes {
		total += t.Price * float64(t.QuantitySold)
	}
	return total
}

// EventSold returns Σ sold over the event's ticket types.
func EventSold(e Event) int {
	var total int
	for _, t := range e.TicketTypes {
		total += t.QuantitySold
	}
	return total
}

// EventCapacity returns Σ quantityTotal over the event's ticket types.
func EventCapacity(e Event) int {
	var total int
	for _, t := range e.TicketTypes {
		total += t.QuantityTotal
	}
	return total
}

// OccupancyRate is sold/capacity as a percentage, 0 when capacity is 0.
func OccupancyRate(sold, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(sold) / float64(capacity) * 100
}

// SellThrough is the occupancy of a single event rounded to a whole percent.
func SellThrough(e Event) int {
	return int(math.Round(OccupancyRate(EventSold(e), EventCapacity(e))))
}

// Summarize reduces filtered into KPIs. FraudulentTickets is computed over all,
// the unfiltered collection, counting validations of events dated before now.
func Summarize(filtered, all []Event, now time.Time) Summary {
	var s Summary
	for _, e := range filtered {
		s.Revenue += EventRevenue(e)
		s.TicketsSold += EventSold(e)
		s.Capacity += EventCapacity(e)
		s.TicketsValidated += e.TicketsValidated
		if e.Status == EventPublished {
			s.PublishedEvents++
		}
	}
	s.OccupancyRate = OccupancyRate(s.TicketsSold, s.Capacity)
	s.FraudulentTickets = FraudulentTickets(all, now)
	return s
}

// SoldOut reports whether every seat of a non-empty event is sold.
func SoldOut(e Event) bool {
	capacity := EventCapacity(e)
	return capacity > 0 && EventSold(e) == capacity
}

// FraudulentTickets sums ticketsValidated over events dated before now.
func FraudulentTickets(events []Event, now time.Time) int {
	var total int
	for _, e := range events {
		if e.Date.Before(now) {
			total += e.TicketsValidated
		}
	}
	return total
}

// TicketTypeBreakdown sums sold tickets per ticket type name, preserving the
// order in which names first appear.
func TicketTypeBreakdown(events []Event) []TypeBreakdown {
	index := map[string]int{}
	var out []TypeBreakdown
	for _, e := range events {
		for _, t := range e.TicketTypes {
			if i, ok := index[t.Name]; ok {
				out[i].Value += t.QuantitySold
				continue
			}
			index[t.Name] = len(out)
			out = append(out, TypeBreakdown{Name: t.Name, Value: t.QuantitySold})
		}
	}
	return out
}

// AccountTotals aggregates every account regardless of active filters.
type AccountTotals struct {
	Balance      float64 `json:"balance"`
	Spent        float64 `json:"spent"`
	Transactions int     `json:"transactions"`
	Accounts     int     `json:"accounts"`
}

// SummarizeAccounts reduces accounts into totals.
func SummarizeAccounts(accounts []ClientAccount) AccountTotals {
	totals := AccountTotals{Accounts: len(accounts)}
	for _, a := range accounts {
		totals.Balance += a.Balance
		totals.Spent += a.TotalSpent
		totals.Transactions += a.TotalTransactions
	}
	return totals
}

// TransactionTotals splits a transaction list into credits and debits.
type TransactionTotals struct {
	Credits float64 `json:"credits"`
	Debits  float64 `json:"debits"`
	Count   int     `json:"count"`
}

// SummarizeTransactions reduces transactions into credit/debit totals.
func SummarizeTransactions(txs []Transaction) TransactionTotals {
	totals := TransactionTotals{Count: len(txs)}
	for _, tx := range txs {
		switch tx.Type {
		case TransactionCredit:
			totals.Credits += tx.Amount
		case TransactionDebit:
			totals.Debits += tx.Amount
		}
	}
	return totals
}

// SalesTotals sums a sales series.
func SalesTotals(points []SalesPoint) (revenue float64, tickets int) {
	for _, p := range points {
		revenue += p.Revenue
		tickets += p.TicketsSold
	}
	return revenue, tickets
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
