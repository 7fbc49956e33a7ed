package listing

import (
	"net/url"
	"strconv"
	"time"

	"daily_report_app_go/models"
	"daily_report_app_go/web/apiclient"
)

// ReportFilter is the search form of the report list.
type ReportFilter struct {
	DateFrom      string
	DateTo        string
	SalespersonID string
	Status        string
}

// Reports defines the report list. Its date range defaults to the first
// day of the current month through today; every column sorts descending
// first.
func Reports(now func() time.Time) Definition[ReportFilter] {
	return Definition[ReportFilter]{
		Defaults: func() ReportFilter {
			t := now()
			first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
			return ReportFilter{
				DateFrom: first.Format(models.DateLayout),
				DateTo:   t.Format(models.DateLayout),
			}
		},
		Parse:       ParseReportFilter,
		Encode:      encodeReportFilter,
		Columns:     []string{"report_date", "status", "submitted_at"},
		DefaultSort: Sort{Field: "report_date", Order: OrderDesc},
		ColumnOrder: OrderDesc,
	}
}

// ParseReportFilter reads the filter from q. Fields absent from q keep
// their defaults; fields present but empty are cleared.
func ParseReportFilter(q url.Values, defaults ReportFilter) ReportFilter {
	f := defaults
	readField(q, "date_from", &f.DateFrom)
	readField(q, "date_to", &f.DateTo)
	readField(q, "salesperson_id", &f.SalespersonID)
	readField(q, "status", &f.Status)
	if !models.ReportStatus(f.Status).Valid() {
		f.Status = ""
	}
	return f
}

func encodeReportFilter(f ReportFilter, q url.Values) {
	q.Set("date_from", f.DateFrom)
	q.Set("date_to", f.DateTo)
	q.Set("salesperson_id", f.SalespersonID)
	q.Set("status", f.Status)
}

// ReportQuery converts the list state into an API query. The salesperson
// filter is sent only for managers.
func ReportQuery(l List[ReportFilter], isManager bool) apiclient.ReportQuery {
	q := apiclient.ReportQuery{
		DateFrom: l.Filter.DateFrom,
		DateTo:   l.Filter.DateTo,
		Status:   l.Filter.Status,
		Sort:     l.Sort.Field,
		Order:    l.Sort.Order,
		Page:     l.Page,
		PerPage:  PerPage,
	}
	if isManager {
		if id, err := strconv.ParseUint(l.Filter.SalespersonID, 10, 64); err == nil {
			q.SalespersonID = uint(id)
		}
	}
	return q
}

// CustomerFilter is the search form of the customer list.
type CustomerFilter struct {
	CompanyName string
	ContactName string
}

// Customers defines the customer list: empty filters, company name
// ascending, every column sorts ascending first.
func Customers() Definition[CustomerFilter] {
	return Definition[CustomerFilter]{
		Defaults:    func() CustomerFilter { return CustomerFilter{} },
		Parse:       ParseCustomerFilter,
		Encode:      encodeCustomerFilter,
		Columns:     []string{"company_name", "contact_name"},
		DefaultSort: Sort{Field: "company_name", Order: OrderAsc},
		ColumnOrder: OrderAsc,
	}
}

func ParseCustomerFilter(q url.Values, defaults CustomerFilter) CustomerFilter {
	f := defaults
	readField(q, "company_name", &f.CompanyName)
	readField(q, "contact_name", &f.ContactName)
	return f
}

func encodeCustomerFilter(f CustomerFilter, q url.Values) {
	q.Set("company_name", f.CompanyName)
	q.Set("contact_name", f.ContactName)
}

func CustomerQuery(l List[CustomerFilter]) apiclient.CustomerQuery {
	return apiclient.CustomerQuery{
		CompanyName: l.Filter.CompanyName,
		ContactName: l.Filter.ContactName,
		Sort:        l.Sort.Field,
		Order:       l.Sort.Order,
		Page:        l.Page,
		PerPage:     PerPage,
	}
}

func readField(q url.Values, key string, dst *string) {
	if q.Has(key) {
		*dst = q.Get(key)
	}
}
