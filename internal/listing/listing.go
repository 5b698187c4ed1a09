package listing

import "strings"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Filter keeps the items whose field contains query, ignoring case.
// An empty query keeps everything.
func Filter[T any](items []T, query string, field func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(field(it)), q) {
			out = append(out, it)
		}
	}
	return out
}

// Page is one slice of a larger result.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the 1-based page of items. Out-of-range pages are empty
// rather than an error; page and size are clamped to sane values.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	pages := (total + size - 1) / size

	start := total
	if page <= pages {
		start = (page - 1) * size
	}
	end := start + size
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}
}
