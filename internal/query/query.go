package query

import (
	"fmt"
	"slices"

	"github.com/mcoot/playerbase/internal/model"
)

const (
	DefaultPageNumber = 0
	DefaultPageSize   = 3
)

// Page selects a window of a sorted listing
type Page struct {
	Number int
	Size   int
}

// DefaultPage returns the first page with the default size
func DefaultPage() Page {
	return Page{Number: DefaultPageNumber, Size: DefaultPageSize}
}

// Validate checks that the page number is non-negative and the size positive
func (p Page) Validate() error {
	if p.Number < 0 {
		return fmt.Errorf("%w: pageNumber must be >= 0", model.ErrInvalidInput)
	}
	if p.Size < 1 {
		return fmt.Errorf("%w: pageSize must be >= 1", model.ErrInvalidInput)
	}
	return nil
}

// Offset returns the index of the first element of the page
func (p Page) Offset() int {
	return p.Number * p.Size
}

// Query combines a filter with a sort order
type Query struct {
	Filter Filter
	Order  Order
}

// New returns a query matching every player ordered by id
func New() Query {
	return Query{Filter: DefaultFilter(), Order: OrderID}
}

// Apply filters and sorts players, then slices out the page.
// A nil page returns every match. The input slice is not modified.
func Apply(players []*model.Player, q Query, page *Page) []*model.Player {
	match := q.Filter.Predicate()

	result := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if match(p) {
			result = append(result, p)
		}
	}

	slices.SortFunc(result, q.Order.Compare)

	if page == nil {
		return result
	}
	if page.Size < 1 || page.Number > len(result)/page.Size {
		return []*model.Player{}
	}
	start := page.Offset()
	if start >= len(result) {
		return []*model.Player{}
	}
	end := min(start+page.Size, len(result))
	return result[start:end]
}

// Count returns how many players match the filter
func Count(players []*model.Player, f Filter) int {
	match := f.Predicate()
	n := 0
	for _, p := range players {
		if match(p) {
			n++
		}
	}
	return n
}
