package dashboard

import (
	"context"
	"time"
)

// EventStatus is the publication state of an event.
type EventStatus string

const (
	EventPublished EventStatus = "published"
	EventDraft     EventStatus = "draft"
	EventEnded     EventStatus = "ended"
)

// FilterAll is the sentinel value that disables an equality filter.
const FilterAll = "all"

// Event is the flattened view model of a backend event record.
type Event struct {
	ID               string       `json:"id" yaml:"id"`
	Title            string       `json:"title" yaml:"title"`
	Date             time.Time    `json:"date" yaml:"date"`
	StartTime        string       `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime          string       `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Location         string       `json:"location" yaml:"location"`
	EventType        string       `json:"event_type" yaml:"event_type"`
	Status           EventStatus  `json:"status" yaml:"status"`
	ImageURL         string       `json:"image_url" yaml:"image_url"`
	Description      string       `json:"description,omitempty" yaml:"description,omitempty"`
	TicketsValidated int          `json:"tickets_validated" yaml:"tickets_validated"`
	TicketTypes      []TicketType `json:"ticket_types" yaml:"ticket_types"`
}

// TicketType is a priced ticket category of an event. QuantitySold should not
// exceed QuantityTotal.
type TicketType struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Price         float64 `json:"price" yaml:"price"`
	QuantityTotal int     `json:"quantity_total" yaml:"quantity_total"`
	QuantitySold  int     `json:"quantity_sold" yaml:"quantity_sold"`
}

// ClientStatus is the display status of a client.
type ClientStatus string

const (
	ClientActive   ClientStatus = "Actif"
	ClientInactive ClientStatus = "Inactif"
	ClientVIP      ClientStatus = "VIP"
	ClientBlocked  ClientStatus = "Bloqué"
)

// Client is derived from the backend user record.
type Client struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Location    string       `json:"location"`
	Status      ClientStatus `json:"status"`
	OrdersCount int          `json:"orders_count"`
	TotalSpent  float64      `json:"total_spent"`
	Referrals   int          `json:"referrals"`
	LastActive  string       `json:"last_active"`
	Avatar      string       `json:"avatar"`
}

// TransactionType tells whether money entered or left an account.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

// Label returns the French display label used by views and reports.
func (s TransactionStatus) Label() string {
	switch s {
	case TransactionCompleted:
		return "Complété"
	case TransactionPending:
		return "En attente"
	case TransactionFailed:
		return "Échoué"
	default:
		return string(s)
	}
}

// Transaction is a single movement on a client account.
type Transaction struct {
	ID          string            `json:"id" yaml:"id"`
	Date        time.Time         `json:"date" yaml:"date"`
	Type        TransactionType   `json:"type" yaml:"type"`
	Amount      float64           `json:"amount" yaml:"amount"`
	Description string            `json:"description" yaml:"description"`
	Status      TransactionStatus `json:"status" yaml:"status"`
}

// ClientAccount is a client wallet with its transaction history.
type ClientAccount struct {
	ID                string        `json:"id" yaml:"id"`
	ClientName        string        `json:"client_name" yaml:"client_name"`
	Email             string        `json:"email" yaml:"email"`
	Balance           float64       `json:"balance" yaml:"balance"`
	TotalSpent        float64       `json:"total_spent" yaml:"total_spent"`
	TotalTransactions int           `json:"total_transactions" yaml:"total_transactions"`
	Avatar            string        `json:"avatar" yaml:"avatar"`
	Transactions      []Transaction `json:"transactions" yaml:"transactions"`
}

// Role of an administrator account.
type Role string

const (
	RoleSuperAdmin Role = "Super Admin"
	RoleAdmin      Role = "Admin"
	RoleScanner    Role = "Scanner"
)

// UserStatus of an administrator account.
type UserStatus string

const (
	UserActive    UserStatus = "Actif"
	UserInactive  UserStatus = "Inactif"
	UserSuspended UserStatus = "Suspendu"
)

// User is an administrator or operator of the dashboard.
type User struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
	Avatar string     `json:"avatar"`
}

// AdminProfile is the profile of the signed-in administrator.
type AdminProfile struct {
	ID        int    `json:"id_admin" yaml:"id_admin"`
	FirstName string `json:"prenom" yaml:"prenom"`
	LastName  string `json:"nom" yaml:"nom"`
	Email     string `json:"email" yaml:"email"`
	Role      string `json:"role" yaml:"role"`
	Photo     string `json:"photo_profil,omitempty" yaml:"photo_profil,omitempty"`
}

// DisplayName joins first and last names.
func (p AdminProfile) DisplayName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// SalesPoint is one entry of the sales time series.
type SalesPoint struct {
	Label       string  `json:"label" yaml:"label"`
	Revenue     float64 `json:"revenue" yaml:"revenue"`
	TicketsSold int     `json:"tickets_sold" yaml:"tickets_sold"`
}

// EventRepository reads events with their ticket types.
type EventRepository interface {
	ListEvents(ctx context.Context) ([]Event, error)
}

// ClientRepository reads clients.
type ClientRepository interface {
	ListClients(ctx context.Context) ([]Client, error)
}

// UserRepository reads administrators.
type UserRepository interface {
	ListAdmins(ctx context.Context) ([]User, error)
}

// ProfileRepository reads a single administrator profile.
type ProfileRepository interface {
	Admin(ctx context.Context, id int) (AdminProfile, error)
}

// AccountRepository reads client accounts.
type AccountRepository interface {
	ListAccounts(ctx context.Context) ([]ClientAccount, error)
}

// SalesRepository reads the sales time series.
type SalesRepository interface {
	SalesSeries(ctx context.Context) ([]SalesPoint, error)
}

// Resource names a collection that commands can invalidate.
type Resource string

const (
	ResourceEvents   Resource = "events"
	ResourceClients  Resource = "clients"
	ResourceUsers    Resource = "users"
	ResourceAccounts Resource = "accounts"
	ResourceSales    Resource = "sales"
	ResourceProfile  Resource = "profile"
)

// InvalidationEvent is broadcast after a collection was re-queried.
type InvalidationEvent struct {
	Resource Resource  `json:"resource"`
	Reason   string    `json:"reason,omitempty"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

// RefreshHook notifies transports (REST/WebSocket) about invalidated collections.
type RefreshHook interface {
	Invalidated(ctx context.Context, event InvalidationEvent) error
}

// ViewerContext describes who is looking at the dashboard.
type ViewerContext struct {
	UserID string
	Name   string
	Role   string
	Locale string
	Theme  string
}
