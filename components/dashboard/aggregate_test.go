package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventRevenue(t *testing.T) {
	e := Event{TicketTypes: []TicketType{
		{Name: "A", Price: 10, QuantityTotal: 10, QuantitySold: 5},
		{Name: "B", Price: 20, QuantityTotal: 5, QuantitySold: 2},
	}}
	assert.Equal(t, 90.0, EventRevenue(e))
	assert.Equal(t, 7, EventSold(e))
	assert.Equal(t, 15, EventCapacity(e))
}

func TestOccupancyWithoutCapacity(t *testing.T) {
	assert.Equal(t, 0.0, OccupancyRate(0, 0))
	assert.Equal(t, 0, SellThrough(Event{}))
	assert.Equal(t, 50.0, OccupancyRate(5, 10))
}

func TestSummarizeCountsFraudOverAllEvents(t *testing.T) {
	now := day(2026, 7, 1)
	past := Event{Status: EventPublished, Date: day(2026, 6, 1), TicketsValidated: 4,
		TicketTypes: []TicketType{{Name: "Standard", Price: 10, QuantityTotal: 10, QuantitySold: 5}}}
	future := Event{Status: EventDraft, Date: day(2026, 8, 1), TicketsValidated: 2,
		TicketTypes: []TicketType{{Name: "VIP", Price: 50, QuantityTotal: 10, QuantitySold: 0}}}

	summary := Summarize([]Event{future}, []Event{past, future}, now)
	assert.Equal(t, 0.0, summary.Revenue)
	assert.Equal(t, 10, summary.Capacity)
	assert.Equal(t, 2, summary.TicketsValidated)
	assert.Equal(t, 4, summary.FraudulentTickets)
	assert.Equal(t, 0, summary.PublishedEvents)

	summary = Summarize([]Event{past, future}, []Event{past, future}, now)
	assert.Equal(t, 50.0, summary.Revenue)
	assert.Equal(t, 25.0, summary.OccupancyRate)
	assert.Equal(t, 1, summary.PublishedEvents)
}

func TestTicketTypeBreakdownKeepsFirstAppearance(t *testing.T) {
	events := []Event{
		{TicketTypes: []TicketType{{Name: "VIP", QuantitySold: 2}, {Name: "Standard", QuantitySold: 5}}},
		{TicketTypes: []TicketType{{Name: "Standard", QuantitySold: 3}, {Name: "Étudiant", QuantitySold: 1}}},
	}
	assert.Equal(t, []TypeBreakdown{
		{Name: "VIP", Value: 2},
		{Name: "Standard", Value: 8},
		{Name: "Étudiant", Value: 1},
	}, TicketTypeBreakdown(events))
}

func TestSummarizeAccountsAndTransactions(t *testing.T) {
	accounts := []ClientAccount{
		{Balance: 100, TotalSpent: 50, TotalTransactions: 2},
		{Balance: 200.5, TotalSpent: 25, TotalTransactions: 1},
	}
	assert.Equal(t, AccountTotals{Balance: 300.5, Spent: 75, Transactions: 3, Accounts: 2}, SummarizeAccounts(accounts))

	totals := SummarizeTransactions([]Transaction{
		{Type: TransactionCredit, Amount: 500},
		{Type: TransactionDebit, Amount: 120},
		{Type: TransactionDebit, Amount: 30},
	})
	assert.Equal(t, TransactionTotals{Credits: 500, Debits: 150, Count: 3}, totals)

	revenue, tickets := SalesTotals([]SalesPoint{{Revenue: 10, TicketsSold: 1}, {Revenue: 5, TicketsSold: 2}})
	assert.Equal(t, 15.0, revenue)
	assert.Equal(t, 3, tickets)
}
