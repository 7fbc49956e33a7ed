package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
	"daily_report_app_go/web/listing"
	"daily_report_app_go/web/validation"
)

var (
	owner   = &dto.UserResponse{ID: 1, Name: "山田 太郎", Role: models.RoleSales}
	manager = &dto.UserResponse{ID: 9, Name: "鈴木 部長", Role: models.RoleManager}
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func detail(status models.ReportStatus, comments ...dto.CommentResponse) *dto.ReportDetail {
	problem := "見積もりの相談"
	return &dto.ReportDetail{
		ID:          7,
		ReportDate:  "2026-10-16",
		Salesperson: dto.PersonRef{ID: owner.ID, Name: owner.Name},
		Problem:     &problem,
		Status:      status,
		Comments:    comments,
	}
}

func comment(target models.CommentTarget, content string) dto.CommentResponse {
	return dto.CommentResponse{Target: target, Content: content, Manager: dto.PersonRef{ID: manager.ID, Name: manager.Name}}
}

func TestReportContent_CountsCommentsPerSection(t *testing.T) {
	r := detail(models.ReportStatusSubmitted,
		comment(models.CommentTargetProblem, "了解です"),
		comment(models.CommentTargetProblem, "詳細を教えてください"),
		comment(models.CommentTargetPlan, "よろしく"),
	)
	out := renderString(t, ReportContent(ReportDetailView{Viewer: manager, Report: r}))
	assert.Contains(t, out, "コメント (2件)")
	assert.Contains(t, out, "コメント (1件)")
	assert.Contains(t, out, "詳細を教えてください")
	assert.Contains(t, out, "記載なし")
}

func TestReportContent_ComposerAndReview(t *testing.T) {
	tests := []struct {
		name         string
		viewer       *dto.UserResponse
		status       models.ReportStatus
		wantComposer bool
		wantReview   bool
	}{
		{"manager submitted", manager, models.ReportStatusSubmitted, true, true},
		{"manager reviewed", manager, models.ReportStatusReviewed, true, false},
		{"manager draft", manager, models.ReportStatusDraft, false, false},
		{"owner submitted", owner, models.ReportStatusSubmitted, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, ReportContent(ReportDetailView{Viewer: tt.viewer, Report: detail(tt.status)}))
			assert.Equal(t, tt.wantComposer, strings.Contains(out, `name="content"`))
			assert.Equal(t, tt.wantReview, strings.Contains(out, "確認済みにする"))
		})
	}
}

func TestReportContent_KeepsDraftAndError(t *testing.T) {
	view := ReportDetailView{
		Viewer:        manager,
		Report:        detail(models.ReportStatusSubmitted),
		CommentDrafts: map[models.CommentTarget]string{models.CommentTargetPlan: "<b>途中</b>"},
		CommentErrors: map[models.CommentTarget]string{models.CommentTargetPlan: "コメントを入力してください"},
	}
	out := renderString(t, ReportContent(view))
	assert.Contains(t, out, "&lt;b&gt;途中&lt;/b&gt;")
	assert.Contains(t, out, "コメントを入力してください")
}

func TestReportContent_ReviewConfirmation(t *testing.T) {
	out := renderString(t, ReportContent(ReportDetailView{Viewer: manager, Report: detail(models.ReportStatusSubmitted), Confirm: "review"}))
	assert.Contains(t, out, "この日報を確認済みにしますか？")
	assert.Contains(t, out, `action="/reports/7/review"`)
}

func TestReportDetail_EditLinkOnlyForOwnedDraft(t *testing.T) {
	out := renderString(t, ReportDetail(ReportDetailView{Viewer: owner, Report: detail(models.ReportStatusDraft)}))
	assert.Contains(t, out, `href="/reports/7/edit"`)

	out = renderString(t, ReportDetail(ReportDetailView{Viewer: owner, Report: detail(models.ReportStatusSubmitted)}))
	assert.NotContains(t, out, `href="/reports/7/edit"`)
}

func TestReportList_PaginationHiddenForSinglePage(t *testing.T) {
	def := listing.Customers()
	view := CustomerListView{
		Viewer: owner,
		Def:    def,
		List:   def.Default(),
		Result: &dto.PaginatedResponse[dto.CustomerListItem]{
			Data:       []dto.CustomerListItem{{ID: 1, CompanyName: "株式会社ABC商事", ContactName: "田中"}},
			Pagination: dto.Pagination{CurrentPage: 1, PerPage: 20, TotalCount: 1, TotalPages: 1},
		},
	}
	out := renderString(t, CustomerList(view))
	assert.Contains(t, out, "株式会社ABC商事")
	assert.NotContains(t, out, `class="pagination"`)

	view.Result.Pagination.TotalPages = 3
	out = renderString(t, CustomerList(view))
	assert.Contains(t, out, `class="pagination"`)
}

func TestReportList_SalespersonFilterForManagersOnly(t *testing.T) {
	def := listing.Reports(func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local) })
	view := ReportListView{Viewer: owner, Def: def, List: def.Default()}
	assert.NotContains(t, renderString(t, ReportList(view)), `name="salesperson_id"`)

	view.Viewer = manager
	view.Salespeople = []dto.UserResponse{*owner}
	out := renderString(t, ReportList(view))
	assert.Contains(t, out, `name="salesperson_id"`)
	assert.Contains(t, out, "山田 太郎")
	assert.Contains(t, out, `value="2026-10-01"`)
}

func TestReportFormPage_Confirmations(t *testing.T) {
	form := validation.ReportForm{ReportDate: "2026-10-17", Visits: []validation.VisitRow{{CustomerID: "3", CustomerName: "合同会社みらい"}}}

	out := renderString(t, ReportFormPage(ReportFormView{Viewer: owner, Form: form}))
	assert.NotContains(t, out, `name="confirmed"`)
	assert.Contains(t, out, `value="合同会社みらい"`)

	out = renderString(t, ReportFormPage(ReportFormView{Viewer: owner, Form: form, Confirm: ConfirmRemove, ConfirmRow: 0}))
	assert.Contains(t, out, `name="confirmed" value="remove_visit:0"`)
	assert.Contains(t, out, "この訪問記録を削除しますか？")
}

func TestCustomerLookup(t *testing.T) {
	assert.Empty(t, renderString(t, CustomerLookup("", nil)))
	assert.Contains(t, renderString(t, CustomerLookup("zzz", nil)), "該当する顧客がありません")

	out := renderString(t, CustomerLookup("ABC", []CustomerOption{{ID: 4, CompanyName: "株式会社ABC商事", ContactName: "田中"}}))
	assert.Contains(t, out, `data-customer-id="4"`)
	assert.Contains(t, out, "株式会社ABC商事")
}

func TestReportShell_LoadsContentOnce(t *testing.T) {
	out := renderString(t, ReportShell("/reports/7/edit"))
	assert.Contains(t, out, `id="report-page" hx-get="/reports/7/edit" hx-trigger="load" hx-target="this" hx-swap="outerHTML"`)
	assert.Equal(t, 6, strings.Count(out, "skeleton-line"))
	assert.NotContains(t, out, "hx-select")
}
