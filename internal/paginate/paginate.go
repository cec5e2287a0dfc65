// Package paginate slices listings fetched from the backend into pages.
package paginate

// DefaultSize is the page size used when none is requested
const DefaultSize = 10

// Result is one page of a listing
type Result[T any] struct {
	Items      []T
	Page       int
	Size       int
	Total      int
	TotalPages int
}

// HasNext reports whether a later page exists
func (r Result[T]) HasNext() bool {
	return r.Page < r.TotalPages
}

// HasPrev reports whether an earlier page exists
func (r Result[T]) HasPrev() bool {
	return r.Page > 1
}

// Page returns the 1-based page of items. Out-of-range pages are clamped to
// the first or last page, and a non-positive size falls back to DefaultSize.
func Page[T any](items []T, page, size int) Result[T] {
	if size <= 0 {
		size = DefaultSize
	}

	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := min(start+size, total)

	return Result[T]{
		Items:      items[start:end],
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}
}
