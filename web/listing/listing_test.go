package listing

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 17, 10, 30, 0, 0, time.Local)
}

func TestReports_Defaults(t *testing.T) {
	l := Reports(fixedNow).Default()

	assert.Equal(t, "2026-10-01", l.Filter.DateFrom)
	assert.Equal(t, "2026-10-17", l.Filter.DateTo)
	assert.Empty(t, l.Filter.SalespersonID)
	assert.Empty(t, l.Filter.Status)
	assert.Equal(t, Sort{Field: "report_date", Order: OrderDesc}, l.Sort)
	assert.Equal(t, 1, l.Page)
}

func TestCustomers_Defaults(t *testing.T) {
	l := Customers().Default()
	assert.Equal(t, CustomerFilter{}, l.Filter)
	assert.Equal(t, Sort{Field: "company_name", Order: OrderAsc}, l.Sort)
}

func TestSearch_AppliesDraftAndResetsPage(t *testing.T) {
	d := Reports(fixedNow)
	l := d.WithPage(d.Default(), 4)

	draft := l.Filter
	draft.Status = "SUBMITTED"
	l = d.Search(l, draft)

	assert.Equal(t, "SUBMITTED", l.Filter.Status)
	assert.Equal(t, 1, l.Page)
	assert.Equal(t, OrderDesc, l.Sort.Order, "search keeps the sort")
}

func TestClear_ResetsEverything(t *testing.T) {
	d := Customers()
	l := d.Search(d.Default(), CustomerFilter{CompanyName: "ABC"})
	l = d.ToggleSort(l, "contact_name")
	l = d.WithPage(l, 3)

	assert.Equal(t, d.Default(), d.Clear())
}

func TestToggleSort(t *testing.T) {
	t.Run("reports start every column descending", func(t *testing.T) {
		d := Reports(fixedNow)
		l := d.WithPage(d.Default(), 3)

		l = d.ToggleSort(l, "report_date")
		assert.Equal(t, Sort{"report_date", OrderAsc}, l.Sort)
		assert.Equal(t, 1, l.Page)

		l = d.ToggleSort(l, "report_date")
		assert.Equal(t, Sort{"report_date", OrderDesc}, l.Sort)

		l = d.ToggleSort(d.ToggleSort(l, "report_date"), "status")
		assert.Equal(t, Sort{"status", OrderDesc}, l.Sort)
	})

	t.Run("customers start every column ascending", func(t *testing.T) {
		d := Customers()
		l := d.ToggleSort(d.Default(), "contact_name")
		assert.Equal(t, Sort{"contact_name", OrderAsc}, l.Sort)

		l = d.ToggleSort(l, "contact_name")
		assert.Equal(t, Sort{"contact_name", OrderDesc}, l.Sort)

		l = d.ToggleSort(l, "company_name")
		assert.Equal(t, Sort{"company_name", OrderAsc}, l.Sort)
	})

	t.Run("unknown column is ignored", func(t *testing.T) {
		d := Customers()
		l := d.WithPage(d.Default(), 2)
		assert.Equal(t, l, d.ToggleSort(l, "phone"))
	})
}

func TestQueryRoundTrip(t *testing.T) {
	d := Reports(fixedNow)
	l := d.Search(d.Default(), ReportFilter{DateFrom: "", DateTo: "2026-10-10", SalespersonID: "3", Status: "REVIEWED"})
	l = d.WithPage(d.ToggleSort(l, "submitted_at"), 2)

	got := d.FromQuery(d.Query(l))
	assert.Equal(t, l, got)
	assert.Empty(t, got.Filter.DateFrom, "a cleared date stays cleared")
}

func TestFromQuery_FallsBackOnBadInput(t *testing.T) {
	d := Reports(fixedNow)
	q := url.Values{"sort": {"salesperson_name"}, "order": {"sideways"}, "page": {"-2"}, "status": {"UNKNOWN"}}

	l := d.FromQuery(q)
	assert.Equal(t, d.DefaultSort, l.Sort)
	assert.Equal(t, 1, l.Page)
	assert.Empty(t, l.Filter.Status)
	assert.Equal(t, "2026-10-01", l.Filter.DateFrom)
}

func TestReportQuery_SalespersonOnlyForManagers(t *testing.T) {
	d := Reports(fixedNow)
	l := d.Search(d.Default(), ReportFilter{SalespersonID: "5"})

	assert.Equal(t, uint(5), ReportQuery(l, true).SalespersonID)
	assert.Zero(t, ReportQuery(l, false).SalespersonID)
	assert.Equal(t, PerPage, ReportQuery(l, true).PerPage)
}

func TestRowNumbersContinueAcrossPages(t *testing.T) {
	l := List[CustomerFilter]{Page: 3}
	assert.Equal(t, 40, l.Offset())
	assert.Equal(t, 41, l.RowNumber(0))
	assert.Equal(t, 45, l.RowNumber(4))
}

func pages(items []PageItem) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, "...")
			continue
		}
		out = append(out, it.Number)
	}
	return out
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []interface{}
	}{
		{"single page is hidden", 1, 1, []interface{}{}},
		{"no pages is hidden", 1, 0, []interface{}{}},
		{"seven pages listed in full", 4, 7, []interface{}{1, 2, 3, 4, 5, 6, 7}},
		{"start of long list", 1, 10, []interface{}{1, 2, "...", 10}},
		{"third page has no leading gap", 3, 10, []interface{}{1, 2, 3, 4, "...", 10}},
		{"middle of long list", 5, 10, []interface{}{1, "...", 4, 5, 6, "...", 10}},
		{"third from last has no trailing gap", 8, 10, []interface{}{1, "...", 7, 8, 9, 10}},
		{"last page", 10, 10, []interface{}{1, "...", 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pages(PageNumbers(tt.current, tt.total)))
		})
	}
}

func TestPageNumbers_MarksCurrent(t *testing.T) {
	items := PageNumbers(5, 10)
	var current []int
	for _, it := range items {
		if it.Current {
			current = append(current, it.Number)
		}
	}
	require.Len(t, current, 1)
	assert.Equal(t, 5, current[0])
}
