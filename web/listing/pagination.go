package listing

// PageItem is one entry of a pagination bar: a page number or a gap.
type PageItem struct {
	Number   int
	Ellipsis bool
	Current  bool
}

// maxPlainPages is the largest page count shown without gaps.
const maxPlainPages = 7

// PageNumbers lays out the pagination bar. It is empty when there is at
// most one page. Up to seven pages are listed in full; beyond that the bar
// shows the first page, the window around current and the last page, with
// a gap wherever pages are skipped.
func PageNumbers(current, total int) []PageItem {
	if total <= 1 {
		return nil
	}
	item := func(n int) PageItem {
		return PageItem{Number: n, Current: n == current}
	}

	if total <= maxPlainPages {
		items := make([]PageItem, 0, total)
		for n := 1; n <= total; n++ {
			items = append(items, item(n))
		}
		return items
	}

	items := []PageItem{item(1)}
	if current > 3 {
		items = append(items, PageItem{Ellipsis: true})
	}
	start := max(2, current-1)
	end := min(total-1, current+1)
	for n := start; n <= end; n++ {
		items = append(items, item(n))
	}
	if current < total-2 {
		items = append(items, PageItem{Ellipsis: true})
	}
	return append(items, item(total))
}
