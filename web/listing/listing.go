// Package listing holds the search, sort and paging state of list pages.
//
// A list has two copies of its filter. The draft lives in the search form
// inputs and never triggers a fetch; the applied filter lives in the page
// URL and drives the query. Search copies the draft into the URL and
// resets the page, Clear resets both to their defaults.
package listing

import (
	"net/url"
	"strconv"
)

// PerPage is the page size of every list.
const PerPage = 20

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

type Sort struct {
	Field string
	Order string
}

// List is the applied state of a list page.
type List[F any] struct {
	Filter F
	Sort   Sort
	Page   int
}

// Offset is the number of rows on the pages before the current one.
func (l List[F]) Offset() int {
	return (l.Page - 1) * PerPage
}

// RowNumber is the 1-based number of row i of the current page,
// continuing across pages.
func (l List[F]) RowNumber(i int) int {
	return l.Offset() + i + 1
}

// Definition describes one kind of list: its filter codec, its sortable
// columns and their default order.
type Definition[F any] struct {
	Defaults    func() F
	Parse       func(q url.Values, defaults F) F
	Encode      func(f F, q url.Values)
	Columns     []string
	DefaultSort Sort
	// ColumnOrder is the order a column starts in when first selected.
	ColumnOrder string
}

// Default is the state of a freshly opened list.
func (d Definition[F]) Default() List[F] {
	return List[F]{Filter: d.Defaults(), Sort: d.DefaultSort, Page: 1}
}

// FromQuery reads the applied state from a page URL. Unknown sort columns
// and malformed pages fall back to the defaults.
func (d Definition[F]) FromQuery(q url.Values) List[F] {
	l := List[F]{Filter: d.Parse(q, d.Defaults()), Sort: d.DefaultSort, Page: 1}
	if field := q.Get("sort"); d.sortable(field) {
		l.Sort = Sort{Field: field, Order: d.ColumnOrder}
		if o := q.Get("order"); o == OrderAsc || o == OrderDesc {
			l.Sort.Order = o
		}
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		l.Page = p
	}
	return l
}

// Query encodes l for a page URL.
func (d Definition[F]) Query(l List[F]) url.Values {
	q := url.Values{}
	d.Encode(l.Filter, q)
	q.Set("sort", l.Sort.Field)
	q.Set("order", l.Sort.Order)
	q.Set("page", strconv.Itoa(l.Page))
	return q
}

// Search applies the draft filter and returns to the first page.
func (d Definition[F]) Search(l List[F], draft F) List[F] {
	l.Filter = draft
	l.Page = 1
	return l
}

// Clear resets filter, sort and page.
func (d Definition[F]) Clear() List[F] {
	return d.Default()
}

// ToggleSort flips the order when field is already the sort column,
// otherwise starts field at the column order. The page resets to 1.
func (d Definition[F]) ToggleSort(l List[F], field string) List[F] {
	if !d.sortable(field) {
		return l
	}
	if l.Sort.Field == field {
		if l.Sort.Order == OrderAsc {
			l.Sort.Order = OrderDesc
		} else {
			l.Sort.Order = OrderAsc
		}
	} else {
		l.Sort = Sort{Field: field, Order: d.ColumnOrder}
	}
	l.Page = 1
	return l
}

// WithPage moves to page p, clamped to at least 1.
func (d Definition[F]) WithPage(l List[F], p int) List[F] {
	if p < 1 {
		p = 1
	}
	l.Page = p
	return l
}

func (d Definition[F]) sortable(field string) bool {
	for _, c := range d.Columns {
		if c == field {
			return true
		}
	}
	return false
}
