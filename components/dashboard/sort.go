package dashboard

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder toggles ascending or descending comparisons.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) apply(c int) int {
	if o == SortDesc {
		return -c
	}
	return c
}

// newNameCollator returns a French collator. Collators keep internal buffers,
// so each sort gets its own.
func newNameCollator() *collate.Collator {
	return collate.New(language.French)
}

// ClientSortKey selects the clients view comparator.
type ClientSortKey string

const (
	ClientSortSpent     ClientSortKey = "spent"
	ClientSortOrders    ClientSortKey = "orders"
	ClientSortReferrals ClientSortKey = "referrals"
	ClientSortName      ClientSortKey = "name"
)

// SortClients returns a sorted copy. Numeric keys sort descending, names
// ascending.
func SortClients(clients []Client, key ClientSortKey) []Client {
	out := slices.Clone(clients)
	switch key {
	case ClientSortSpent:
		slices.SortStableFunc(out, func(a, b Client) int { return cmp.Compare(b.TotalSpent, a.TotalSpent) })
	case ClientSortOrders:
		slices.SortStableFunc(out, func(a, b Client) int { return cmp.Compare(b.OrdersCount, a.OrdersCount) })
	case ClientSortReferrals:
		slices.SortStableFunc(out, func(a, b Client) int { return cmp.Compare(b.Referrals, a.Referrals) })
	case ClientSortName:
		col := newNameCollator()
		slices.SortStableFunc(out, func(a, b Client) int { return col.CompareString(a.Name, b.Name) })
	}
	return out
}

// AccountSortKey selects the accounts view comparator.
type AccountSortKey string

const (
	AccountSortName    AccountSortKey = "name"
	AccountSortBalance AccountSortKey = "balance"
	AccountSortSpent   AccountSortKey = "spent"
)

// SortAccounts returns a sorted copy ordered by key and order.
func SortAccounts(accounts []ClientAccount, key AccountSortKey, order SortOrder) []ClientAccount {
	out := slices.Clone(accounts)
	var compare func(a, b ClientAccount) int
	switch key {
	case AccountSortBalance:
		compare = func(a, b ClientAccount) int { return cmp.Compare(a.Balance, b.Balance) }
	case AccountSortSpent:
		compare = func(a, b ClientAccount) int { return cmp.Compare(a.TotalSpent, b.TotalSpent) }
	default:
		col := newNameCollator()
		compare = func(a, b ClientAccount) int { return col.CompareString(a.ClientName, b.ClientName) }
	}
	slices.SortStableFunc(out, func(a, b ClientAccount) int { return order.apply(compare(a, b)) })
	return out
}

// SortTransactionsByDate returns transactions newest first.
func SortTransactionsByDate(txs []Transaction) []Transaction {
	out := slices.Clone(txs)
	slices.SortStableFunc(out, func(a, b Transaction) int { return b.Date.Compare(a.Date) })
	return out
}
