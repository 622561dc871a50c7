package dashboard

// Page sizes of the paginated views.
const (
	AccountsPageSize = 20
	ClientsPageSize  = 10
	EventsPageSize   = 9
	pageWindowSize   = 5
)

// Paged is one slice of a paginated collection.
type Paged[T any] struct {
	Items      []T   `json:"items"`
	Current    int   `json:"current"`
	TotalPages int   `json:"total_pages"`
	TotalItems int   `json:"total_items"`
	Window     []int `json:"window"`
}

// Paginate returns the requested page, clamping current into [1, totalPages].
func Paginate[T any](items []T, current, size int) Paged[T] {
	if size <= 0 {
		size = len(items)
	}
	total := 0
	if size > 0 {
		total = (len(items) + size - 1) / size
	}
	if current < 1 {
		current = 1
	}
	if total > 0 && current > total {
		current = total
	}
	start := (current - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return Paged[T]{
		Items:      items[start:end],
		Current:    current,
		TotalPages: total,
		TotalItems: len(items),
		Window:     PageWindow(current, total),
	}
}

// PageWindow returns the page numbers shown as buttons: every page when there
// are at most five, otherwise the first five, the last five, or a window of
// five centered on current.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	var first, last int
	switch {
	case total <= pageWindowSize:
		first, last = 1, total
	case current <= 3:
		first, last = 1, pageWindowSize
	case current >= total-2:
		first, last = total-pageWindowSize+1, total
	default:
		first, last = current-2, current+2
	}
	pages := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		pages = append(pages, p)
	}
	return pages
}
