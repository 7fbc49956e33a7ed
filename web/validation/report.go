package validation

import (
	"net/url"
	"strconv"
	"strings"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	rules "daily_report_app_go/validation"
)

// Mode selects how strictly a report form is checked.
type Mode int

const (
	// ModeDraft saves work in progress: rows left completely blank are
	// dropped, everything that was entered must be well formed.
	ModeDraft Mode = iota
	// ModeSubmit checks the whole form; every row must be complete.
	ModeSubmit
)

// VisitRow is one visit record row of the report form. CustomerName is
// the display name of the chosen customer and is never sent to the API.
type VisitRow struct {
	CustomerID   string `form:"customer_id" validate:"required" label:"顧客"`
	CustomerName string `form:"-"`
	VisitContent string `form:"visit_content" validate:"required,notblank,max=1000,nomarkup" label:"訪問内容"`
	VisitedAt    string `form:"visited_at" validate:"hhmm" label:"訪問時刻"`
}

// Blank reports whether nothing was entered in the row.
func (r VisitRow) Blank() bool {
	return strings.TrimSpace(r.CustomerID) == "" &&
		strings.TrimSpace(r.VisitContent) == "" &&
		strings.TrimSpace(r.VisitedAt) == ""
}

// ReportForm is the report create and edit form.
type ReportForm struct {
	ReportDate string     `form:"report_date" validate:"required,datefmt,notfuture" label:"報告日"`
	Visits     []VisitRow `form:"visit_records" validate:"dive"`
	Problem    string     `form:"problem" validate:"max=2000,nomarkup" label:"課題・相談"`
	Plan       string     `form:"plan" validate:"max=2000,nomarkup" label:"明日やること"`
}

// Visit row inputs repeat once per row, in row order.
const (
	FieldVisitCustomerID   = "visit_customer_id"
	FieldVisitCustomerName = "visit_customer_name"
	FieldVisitContent      = "visit_content"
	FieldVisitedAt         = "visit_visited_at"
)

// NewReportForm is the empty form dated today.
func NewReportForm(today string) ReportForm {
	return ReportForm{ReportDate: today}
}

// ReportFormFrom fills the form from an existing report.
func ReportFormFrom(r *dto.ReportDetail) ReportForm {
	f := ReportForm{
		ReportDate: r.ReportDate,
		Problem:    deref(r.Problem),
		Plan:       deref(r.Plan),
	}
	for _, v := range r.VisitRecords {
		f.Visits = append(f.Visits, VisitRow{
			CustomerID:   strconv.FormatUint(uint64(v.Customer.ID), 10),
			CustomerName: v.Customer.CompanyName,
			VisitContent: v.VisitContent,
			VisitedAt:    v.VisitedAt,
		})
	}
	return f
}

// ParseReportForm reads a posted report form.
func ParseReportForm(v url.Values) ReportForm {
	f := ReportForm{
		ReportDate: strings.TrimSpace(v.Get("report_date")),
		Problem:    v.Get("problem"),
		Plan:       v.Get("plan"),
	}
	ids := v[FieldVisitCustomerID]
	names := v[FieldVisitCustomerName]
	contents := v[FieldVisitContent]
	times := v[FieldVisitedAt]
	n := max(len(ids), len(names), len(contents), len(times))
	for i := 0; i < n; i++ {
		f.Visits = append(f.Visits, VisitRow{
			CustomerID:   at(ids, i),
			CustomerName: at(names, i),
			VisitContent: at(contents, i),
			VisitedAt:    strings.TrimSpace(at(times, i)),
		})
	}
	return f
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

// Prepare returns the form as it will be validated and sent in mode.
func (f ReportForm) Prepare(mode Mode) ReportForm {
	if mode != ModeDraft {
		return f
	}
	out := f
	out.Visits = nil
	for _, r := range f.Visits {
		if !r.Blank() {
			out.Visits = append(out.Visits, r)
		}
	}
	return out
}

// Validate checks the prepared form. Visit row fields are keyed
// "visit_records[i].<field>" with i the row index of the prepared form.
func (f ReportForm) Validate(mode Mode) Errors {
	return fromDetails(rules.Struct(f.Prepare(mode)))
}

// Request builds the API payload for status.
func (f ReportForm) Request(status models.ReportStatus) dto.ReportRequest {
	req := dto.ReportRequest{
		ReportDate:   f.ReportDate,
		Problem:      optional(f.Problem),
		Plan:         optional(f.Plan),
		Status:       status,
		VisitRecords: make([]dto.VisitRecordRequest, 0, len(f.Visits)),
	}
	for _, r := range f.Visits {
		req.VisitRecords = append(req.VisitRecords, dto.VisitRecordRequest{
			CustomerID:   parseID(r.CustomerID),
			VisitContent: r.VisitContent,
			VisitedAt:    r.VisitedAt,
		})
	}
	return req
}

// AddRow appends an empty visit row.
func (f ReportForm) AddRow() ReportForm {
	f.Visits = append(append([]VisitRow(nil), f.Visits...), VisitRow{})
	return f
}

// RemoveRow drops row i. Out of range indexes leave the form unchanged.
func (f ReportForm) RemoveRow(i int) ReportForm {
	if i < 0 || i >= len(f.Visits) {
		return f
	}
	rows := make([]VisitRow, 0, len(f.Visits)-1)
	rows = append(rows, f.Visits[:i]...)
	f.Visits = append(rows, f.Visits[i+1:]...)
	return f
}

// Equal reports whether f and other hold the same input. Customer display
// names are ignored.
func (f ReportForm) Equal(other ReportForm) bool {
	if f.ReportDate != other.ReportDate || f.Problem != other.Problem || f.Plan != other.Plan {
		return false
	}
	if len(f.Visits) != len(other.Visits) {
		return false
	}
	for i := range f.Visits {
		a, b := f.Visits[i], other.Visits[i]
		if a.CustomerID != b.CustomerID || a.VisitContent != b.VisitContent || a.VisitedAt != b.VisitedAt {
			return false
		}
	}
	return true
}
