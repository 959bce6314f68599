package aggregate

// DefaultPageSize is used when a caller passes a non-positive size.
const DefaultPageSize = 5

// DefaultPageWindow is the number of page buttons shown at once.
const DefaultPageWindow = 5

// Page is one slice of a paginated sequence. Start and End are the 0-based
// half-open bounds of Items within the full sequence.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Start      int `json:"start"`
	End        int `json:"end"`
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Paginate returns items[(page-1)*size, page*size).
//
// A size <= 0 becomes DefaultPageSize. page is clamped into
// [1, TotalPages]; an empty input yields an empty page 1 with TotalPages 0.
// Items aliases the input slice and is never nil.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := total / size
	if total%size != 0 {
		pages++
	}

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*size, total)
	end := min(start+size, total)
	window := []T{}
	if total > 0 {
		window = items[start:end:end]
	}
	return Page[T]{
		Items:      window,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
		Start:      start,
		End:        end,
	}
}

// PageWindow returns at most width page numbers starting width/2 before
// current. A single page or none yields nil.
func PageWindow(current, totalPages, width int) []int {
	if totalPages <= 1 {
		return nil
	}
	if width <= 0 {
		width = DefaultPageWindow
	}
	current = max(1, min(current, totalPages))

	first := max(1, current-width/2)
	last := min(totalPages, first+width-1)

	out := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		out = append(out, p)
	}
	return out
}
