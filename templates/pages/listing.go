package pages

import (
	"context"

	"daily_report_app_go/templates/partials"
	"daily_report_app_go/web/listing"
)

type column struct{ field, key string }

// sortHeader is a column header; Href is empty for columns that do not
// sort.
type sortHeader struct {
	Label string
	Href  string
}

// sortHeaders builds the column headers. Sortable columns link to the
// toggled sort state and carry the current direction.
func sortHeaders[F any](ctx context.Context, def listing.Definition[F], l listing.List[F], cols []column, url func(listing.List[F]) string) []sortHeader {
	out := make([]sortHeader, 0, len(cols))
	for _, col := range cols {
		label := partials.T(ctx, col.key)
		if col.field == "" {
			out = append(out, sortHeader{Label: label})
			continue
		}
		indicator := "↕"
		if l.Sort.Field == col.field {
			indicator = "↓"
			if l.Sort.Order == listing.OrderAsc {
				indicator = "↑"
			}
		}
		out = append(out, sortHeader{Label: label + " " + indicator, Href: url(def.ToggleSort(l, col.field))})
	}
	return out
}
