// Package pagination implements page windowing with orphan absorption and a
// generic fetch helper shared by every list view.
//
// Orphan absorption merges a trailing under-filled page into the previous
// page: with a page size of 6 and 1 orphan, 7 items render as one page of 7
// rather than a page of 6 followed by a near-empty page of 1.
package pagination

import (
	"context"
	"errors"
)

const (
	// DefaultPageSize is the number of items per list page.
	DefaultPageSize = 6
	// DefaultOrphans is the maximum trailing-page size absorbed into the
	// previous page.
	DefaultOrphans = 1
)

// ErrPageOutOfRange reports a request for a page number that does not exist.
var ErrPageOutOfRange = errors.New("page number out of range")

// Page is one window of a paginated result set.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Total    int64
	Size     int
	Orphans  int
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }

// PrevNumber returns the previous page number.
func (p Page[T]) PrevNumber() int { return p.Number - 1 }

// NextNumber returns the following page number.
func (p Page[T]) NextNumber() int { return p.Number + 1 }

// PageNumbers returns 1..NumPages for rendering page links.
func (p Page[T]) PageNumbers() []int {
	nums := make([]int, p.NumPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// Window is the limit/offset slice of a page.
type Window struct {
	Offset int
	Limit  int
}

// NumPages computes the page count for total items, absorbing a trailing page
// of up to orphans items into the previous one. An empty set still has one
// (empty) page.
func NumPages(total int64, size, orphans int) int {
	if size <= 0 {
		return 1
	}
	hits := total - int64(orphans)
	if hits < 1 {
		hits = 1
	}
	return int((hits + int64(size) - 1) / int64(size))
}

// WindowFor returns the limit/offset window for the requested page number.
// The last page's limit includes the absorbed orphans.
func WindowFor(total int64, number, size, orphans int) (Window, error) {
	numPages := NumPages(total, size, orphans)
	if number < 1 || number > numPages {
		return Window{}, ErrPageOutOfRange
	}

	w := Window{Offset: (number - 1) * size, Limit: size}
	if number == numPages {
		w.Limit = size + orphans
	}
	return w, nil
}

// Fetch assembles a page using two closures: count returns the filtered total
// and list returns one window of the filtered, ordered result set. The search
// predicate and ordering live entirely in the closures, so every entity type
// shares this one implementation.
func Fetch[T any](
	ctx context.Context,
	number, size, orphans int,
	count func(ctx context.Context) (int64, error),
	list func(ctx context.Context, offset, limit int) ([]T, error),
) (Page[T], error) {
	page := Page[T]{Number: number, Size: size, Orphans: orphans}

	total, err := count(ctx)
	if err != nil {
		return page, err
	}
	page.Total = total
	page.NumPages = NumPages(total, size, orphans)

	w, err := WindowFor(total, number, size, orphans)
	if err != nil {
		return page, err
	}

	items, err := list(ctx, w.Offset, w.Limit)
	if err != nil {
		return page, err
	}
	page.Items = items
	return page, nil
}

// Empty returns a valid single-page result with no items, used when a filter
// resolves to nothing without touching the store.
func Empty[T any](number, size, orphans int) (Page[T], error) {
	if number != 1 {
		return Page[T]{}, ErrPageOutOfRange
	}
	return Page[T]{Number: 1, NumPages: 1, Size: size, Orphans: orphans}, nil
}
