package dashboard

import (
	"context"
	"testing"

	"github.com/goliatone/go-ticketdash/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboardView(t *testing.T) {
	now := day(2026, 10, 12)
	events := make([]Event, 0, 7)
	for i := 1; i <= 7; i++ {
		events = append(events, eventWithRevenue(string(rune('a'+i)), float64(i*10)))
	}
	view := BuildDashboardView(DashboardParams{
		Events:   events,
		Profile:  AdminProfile{FirstName: "Awa", LastName: "Diop"},
		Activity: []activity.Event{{Verb: "created"}},
		Now:      now,
	})

	assert.Equal(t, "Awa Diop", view.Greeting)
	assert.Equal(t, "Lundi 12 octobre 2026", view.CurrentDate)
	assert.Equal(t, 280.0, view.Summary.Revenue)
	require.Len(t, view.TopEvents, DashboardTopEventsLimit)
	assert.Equal(t, 70.0, view.TopEvents[0].Revenue)
	assert.Len(t, view.RecentActivity, 1)

	anonymous := BuildDashboardView(DashboardParams{Now: now})
	assert.Equal(t, "Administrateur", anonymous.Greeting)
}

func TestBuildStatisticsView(t *testing.T) {
	now := day(2026, 7, 1)
	events := sampleEvents()
	events[0].TicketTypes = []TicketType{{Name: "Standard", Price: 20, QuantityTotal: 10, QuantitySold: 10}}
	events[0].TicketsValidated = 3
	events[2].TicketsValidated = 2

	view := BuildStatisticsView(StatisticsParams{
		Events: events,
		Filter: StatisticsFilter{Status: "published"},
		Now:    now,
	})
	require.Len(t, view.Events, 1)
	assert.Equal(t, 200.0, view.Summary.Revenue)
	assert.Equal(t, 100.0, view.Summary.OccupancyRate)
	assert.Equal(t, 5, view.Summary.FraudulentTickets, "fraud ignores the status filter")
	assert.Equal(t, []TypeBreakdown{{Name: "Standard", Value: 10}}, view.Breakdown)
	assert.Equal(t, 1, view.TotalRanked)
}

func TestBuildEventsViewPaginates(t *testing.T) {
	events := make([]Event, 0, 20)
	for i := 0; i < 20; i++ {
		events = append(events, Event{Title: "Concert", EventType: "Concert"})
	}
	events = append(events, Event{Title: "Salon", EventType: "Salon"})

	view := BuildEventsView(events, EventFilter{}, 3)
	assert.Equal(t, 3, view.Page.TotalPages)
	assert.Len(t, view.Page.Items, 3)
	assert.Equal(t, []string{"Concert", "Salon"}, view.Types)

	filtered := BuildEventsView(events, EventFilter{Type: "Salon"}, 1)
	assert.Equal(t, 1, filtered.Page.TotalItems)
}

func TestBuildClientsView(t *testing.T) {
	clients := []Client{
		{Name: "A", Status: ClientActive, TotalSpent: 100, Referrals: 1},
		{Name: "B", Status: ClientVIP, TotalSpent: 300, Referrals: 4},
		{Name: "C", Status: ClientBlocked, TotalSpent: 50, Referrals: 9},
		{Name: "D", Status: ClientActive, TotalSpent: 10, Referrals: 0},
	}
	view := BuildClientsView(ClientsParams{
		Clients: clients,
		Filter:  ClientFilter{Status: string(ClientActive)},
		Sort:    ClientSortSpent,
	})
	require.Len(t, view.Page.Items, 2)
	assert.Equal(t, "A", view.Page.Items[0].Name)
	assert.Equal(t, ClientStats{Total: 4, Active: 2, VIP: 1, Blocked: 1, Revenue: 460}, view.Stats)
	assert.Equal(t, "C", view.TopAmbassadors[0].Name, "leaderboards ignore the filter")
	assert.Len(t, view.TopSpenders, 3)
}

func TestBuildAccountsViewWithDetail(t *testing.T) {
	repo, err := LoadFixtures("")
	require.NoError(t, err)
	accounts, _ := repo.ListAccounts(context.Background())

	view := BuildAccountsView(AccountsParams{
		Accounts:       accounts,
		Filter:         AccountFilter{Balance: BalancePositive},
		SortBy:         AccountSortBalance,
		Order:          SortDesc,
		Page:           1,
		SelectedID:     "1",
		TransactionsIn: DateRange{From: day(2024, 1, 10)},
	})
	require.Len(t, view.Page.Items, 2)
	assert.Equal(t, "Sophie Laurent", view.Page.Items[0].ClientName)
	assert.Equal(t, 3, view.Totals.Accounts)
	require.NotNil(t, view.Detail)
	assert.Len(t, view.Detail.Transactions, 2)
	assert.Equal(t, TransactionTotals{Credits: 500, Debits: 120, Count: 2}, view.Detail.Totals)

	missing := BuildAccountsView(AccountsParams{Accounts: accounts, SelectedID: "nope"})
	assert.Nil(t, missing.Detail)
}

func TestBuildUsersView(t *testing.T) {
	users := []User{
		{ID: 1, Name: "Alice", Role: RoleSuperAdmin, Status: UserActive},
		{ID: 2, Name: "Bob", Role: RoleAdmin, Status: UserInactive},
		{ID: 3, Name: "Chloé", Role: RoleAdmin, Status: UserActive},
	}
	view := BuildUsersView(users, UserFilter{Search: "b"})
	require.Len(t, view.Users, 1)
	assert.Equal(t, 2, view.ByRole[RoleAdmin])
	assert.Equal(t, 2, view.Active)
}

func TestBuildSettingsView(t *testing.T) {
	view := BuildSettingsView(AdminProfile{FirstName: "awa"})
	assert.Equal(t, "A", view.Initial)
	assert.Equal(t, "A", BuildSettingsView(AdminProfile{}).Initial)
}
