package dashboard

import (
	"slices"
	"time"

	"github.com/goliatone/go-ticketdash/pkg/activity"
)

// DashboardView is the landing page model.
type DashboardView struct {
	Greeting       string            `json:"greeting"`
	CurrentDate    string            `json:"current_date"`
	Summary        Summary           `json:"summary"`
	TopEvents      []RankedEvent     `json:"top_events"`
	Sales          []SalesPoint      `json:"sales"`
	RecentActivity []activity.Event  `json:"recent_activity"`
	Charts         map[string]string `json:"charts,omitempty"`
}

// DashboardParams feeds BuildDashboardView.
type DashboardParams struct {
	Events   []Event
	Sales    []SalesPoint
	Profile  AdminProfile
	Activity []activity.Event
	Now      time.Time
}

// BuildDashboardView totals every event and keeps the five best sellers.
func BuildDashboardView(p DashboardParams) DashboardView {
	greeting := p.Profile.DisplayName()
	if greeting == "" {
		greeting = "Administrateur"
	}
	return DashboardView{
		Greeting:       greeting,
		CurrentDate:    FormatLongDate(p.Now),
		Summary:        Summarize(p.Events, p.Events, p.Now),
		TopEvents:      TopEvents(p.Events, DashboardTopEventsLimit, false),
		Sales:          slices.Clone(p.Sales),
		RecentActivity: p.Activity,
	}
}

// StatisticsView is the detailed statistics page model.
type StatisticsView struct {
	Filter      StatisticsFilter  `json:"filter"`
	ShowAll     bool              `json:"show_all"`
	Events      []Event           `json:"events"`
	Summary     Summary           `json:"summary"`
	Breakdown   []TypeBreakdown   `json:"breakdown"`
	TopEvents   []RankedEvent     `json:"top_events"`
	TotalRanked int               `json:"total_ranked"`
	Sales       []SalesPoint      `json:"sales"`
	Charts      map[string]string `json:"charts,omitempty"`
}

// StatisticsParams feeds BuildStatisticsView.
type StatisticsParams struct {
	Events  []Event
	Sales   []SalesPoint
	Filter  StatisticsFilter
	ShowAll bool
	Now     time.Time
}

// BuildStatisticsView filters events then derives KPIs, the ticket mix and
// the top-N ranking. Fraudulent tickets ignore the active filters.
func BuildStatisticsView(p StatisticsParams) StatisticsView {
	filtered := p.Filter.Apply(p.Events, p.Now)
	return StatisticsView{
		Filter:      p.Filter,
		ShowAll:     p.ShowAll,
		Events:      filtered,
		Summary:     Summarize(filtered, p.Events, p.Now),
		Breakdown:   TicketTypeBreakdown(filtered),
		TopEvents:   TopEvents(filtered, TopEventsLimit, p.ShowAll),
		TotalRanked: len(filtered),
		Sales:       slices.Clone(p.Sales),
	}
}

// EventsView is the events catalogue model.
type EventsView struct {
	Filter EventFilter        `json:"filter"`
	Page   Paged[RankedEvent] `json:"page"`
	Types  []string           `json:"types"`
}

// BuildEventsView filters and paginates events and lists the distinct event
// types.
func BuildEventsView(events []Event, f EventFilter, page int) EventsView {
	filtered := FilterEvents(events, f)
	ranked := make([]RankedEvent, len(filtered))
	for i, e := range filtered {
		ranked[i] = RankEvent(e)
	}
	return EventsView{
		Filter: f,
		Page:   Paginate(ranked, page, EventsPageSize),
		Types:  EventTypes(events),
	}
}

// EventTypes lists distinct event types in first-appearance order.
func EventTypes(events []Event) []string {
	var types []string
	seen := map[string]bool{}
	for _, e := range events {
		if e.EventType == "" || seen[e.EventType] {
			continue
		}
		seen[e.EventType] = true
		types = append(types, e.EventType)
	}
	return types
}

// TicketSalesView is the ticket inventory model.
type TicketSalesView struct {
	Filter  TicketSalesFilter `json:"filter"`
	Rows    []RankedEvent     `json:"rows"`
	Summary Summary           `json:"summary"`
}

// BuildTicketSalesView filters events by title, date and availability.
func BuildTicketSalesView(events []Event, f TicketSalesFilter, now time.Time) TicketSalesView {
	filtered := filterSlice(events, f.Match)
	rows := make([]RankedEvent, len(filtered))
	for i, e := range filtered {
		rows[i] = RankEvent(e)
	}
	return TicketSalesView{Filter: f, Rows: rows, Summary: Summarize(filtered, events, now)}
}

// ClientStats counts clients per status.
type ClientStats struct {
	Total   int     `json:"total"`
	Active  int     `json:"active"`
	VIP     int     `json:"vip"`
	Blocked int     `json:"blocked"`
	Revenue float64 `json:"revenue"`
}

// ClientsView is the client list model.
type ClientsView struct {
	Filter         ClientFilter  `json:"filter"`
	Sort           ClientSortKey `json:"sort"`
	Page           Paged[Client] `json:"page"`
	Stats          ClientStats   `json:"stats"`
	TopAmbassadors []Client      `json:"top_ambassadors"`
	TopSpenders    []Client      `json:"top_spenders"`
}

// ClientsParams feeds BuildClientsView.
type ClientsParams struct {
	Clients            []Client
	Filter             ClientFilter
	Sort               ClientSortKey
	ShowAllAmbassadors bool
	ShowAllSpenders    bool
	Page               int
}

// BuildClientsView filters and sorts clients. Leaderboards rank the whole list.
func BuildClientsView(p ClientsParams) ClientsView {
	filtered := filterSlice(p.Clients, p.Filter.Match)
	return ClientsView{
		Filter:         p.Filter,
		Sort:           p.Sort,
		Page:           Paginate(SortClients(filtered, p.Sort), p.Page, ClientsPageSize),
		Stats:          countClients(p.Clients),
		TopAmbassadors: TopAmbassadors(p.Clients, p.ShowAllAmbassadors),
		TopSpenders:    TopSpenders(p.Clients, p.ShowAllSpenders),
	}
}

func countClients(clients []Client) ClientStats {
	stats := ClientStats{Total: len(clients)}
	for _, c := range clients {
		switch c.Status {
		case ClientActive:
			stats.Active++
		case ClientVIP:
			stats.VIP++
		case ClientBlocked:
			stats.Blocked++
		}
		stats.Revenue += c.TotalSpent
	}
	return stats
}

// AccountDetail is the selected account with its filtered history.
type AccountDetail struct {
	Account      ClientAccount     `json:"account"`
	Transactions []Transaction     `json:"transactions"`
	Totals       TransactionTotals `json:"totals"`
	Range        DateRange         `json:"range"`
}

// AccountsView is the client accounts model.
type AccountsView struct {
	Filter AccountFilter        `json:"filter"`
	SortBy AccountSortKey       `json:"sort_by"`
	Order  SortOrder            `json:"order"`
	Page   Paged[ClientAccount] `json:"page"`
	Totals AccountTotals        `json:"totals"`
	Detail *AccountDetail       `json:"detail,omitempty"`
}

// AccountsParams feeds BuildAccountsView.
type AccountsParams struct {
	Accounts       []ClientAccount
	Filter         AccountFilter
	SortBy         AccountSortKey
	Order          SortOrder
	Page           int
	SelectedID     string
	TransactionsIn DateRange
}

// BuildAccountsView filters, sorts and paginates accounts. Totals cover every
// account.
func BuildAccountsView(p AccountsParams) AccountsView {
	filtered := filterSlice(p.Accounts, p.Filter.Match)
	sorted := SortAccounts(filtered, p.SortBy, p.Order)
	view := AccountsView{
		Filter: p.Filter,
		SortBy: p.SortBy,
		Order:  p.Order,
		Page:   Paginate(sorted, p.Page, AccountsPageSize),
		Totals: SummarizeAccounts(p.Accounts),
	}
	if p.SelectedID != "" {
		if detail, ok := BuildAccountDetail(p.Accounts, p.SelectedID, p.TransactionsIn); ok {
			view.Detail = &detail
		}
	}
	return view
}

// BuildAccountDetail selects one account and filters its transactions.
func BuildAccountDetail(accounts []ClientAccount, id string, r DateRange) (AccountDetail, bool) {
	for _, a := range accounts {
		if a.ID != id {
			continue
		}
		txs := FilterTransactions(a.Transactions, r)
		return AccountDetail{
			Account:      a,
			Transactions: txs,
			Totals:       SummarizeTransactions(txs),
			Range:        r,
		}, true
	}
	return AccountDetail{}, false
}

// UsersView is the administrators model.
type UsersView struct {
	Filter UserFilter   `json:"filter"`
	Users  []User       `json:"users"`
	ByRole map[Role]int `json:"by_role"`
	Active int          `json:"active"`
}

// BuildUsersView filters administrators by search and role.
func BuildUsersView(users []User, f UserFilter) UsersView {
	view := UsersView{Filter: f, Users: filterSlice(users, f.Match), ByRole: map[Role]int{}}
	for _, u := range users {
		view.ByRole[u.Role]++
		if u.Status == UserActive {
			view.Active++
		}
	}
	return view
}

// SettingsView is the profile settings model.
type SettingsView struct {
	Profile AdminProfile `json:"profile"`
	Initial string       `json:"initial"`
}

// BuildSettingsView wraps the signed-in profile.
func BuildSettingsView(profile AdminProfile) SettingsView {
	return SettingsView{Profile: profile, Initial: Initial(profile.FirstName, "A")}
}
