package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"daily_report_app_go/dto"
	"daily_report_app_go/models"
)

func fixedNow(t *testing.T, day string) {
	t.Helper()
	d, err := time.Parse(models.DateLayout, day)
	if err != nil {
		t.Fatal(err)
	}
	prev := Now
	Now = func() time.Time { return d.Add(10 * time.Hour) }
	t.Cleanup(func() { Now = prev })
}

func detailMap(ds []dto.ErrorDetail) map[string]string {
	m := make(map[string]string, len(ds))
	for _, d := range ds {
		m[d.Field] = d.Message
	}
	return m
}

func TestStructReportRequest(t *testing.T) {
	fixedNow(t, "2026-10-17")

	t.Run("valid request", func(t *testing.T) {
		req := dto.ReportRequest{
			ReportDate: "2026-10-17",
			Status:     models.ReportStatusDraft,
			VisitRecords: []dto.VisitRecordRequest{
				{CustomerID: 1, VisitContent: "定例訪問", VisitedAt: "10:30"},
			},
		}
		assert.Empty(t, Struct(req))
	})

	t.Run("future date and malformed visit", func(t *testing.T) {
		long := strings.Repeat("あ", 1001)
		req := dto.ReportRequest{
			ReportDate: "2026-10-18",
			Status:     models.ReportStatusSubmitted,
			VisitRecords: []dto.VisitRecordRequest{
				{CustomerID: 0, VisitContent: long, VisitedAt: "9:00"},
			},
		}
		got := detailMap(Struct(req))
		assert.Equal(t, "報告日に未来の日付は指定できません", got["report_date"])
		assert.Equal(t, "顧客を入力してください", got["visit_records[0].customer_id"])
		assert.Equal(t, "1000文字以内で入力してください", got["visit_records[0].visit_content"])
		assert.Equal(t, "時刻形式（HH:mm）で入力してください", got["visit_records[0].visited_at"])
	})

	t.Run("malformed date", func(t *testing.T) {
		got := detailMap(Struct(dto.ReportRequest{ReportDate: "2026/10/01", Status: "DRAFT"}))
		assert.Equal(t, "日付形式で入力してください", got["report_date"])
	})

	t.Run("problem counts characters not bytes", func(t *testing.T) {
		problem := strings.Repeat("課", 2000)
		req := dto.ReportRequest{ReportDate: "2026-10-01", Status: "DRAFT", Problem: &problem}
		assert.Empty(t, Struct(req))
	})
}

func TestStructRejectsMarkup(t *testing.T) {
	fixedNow(t, "2026-10-17")
	report := func(content string, problem *string) dto.ReportRequest {
		return dto.ReportRequest{
			ReportDate: "2026-10-17",
			Status:     models.ReportStatusDraft,
			Problem:    problem,
			VisitRecords: []dto.VisitRecordRequest{
				{CustomerID: 1, VisitContent: content, VisitedAt: "10:00"},
			},
		}
	}

	rejected := []string{"<br>", "在庫a<b件", "<script>alert(1)</script>", "<p></p>"}
	for _, content := range rejected {
		got := detailMap(Struct(report(content, nil)))
		assert.Equal(t, "HTMLタグは入力できません", got["visit_records[0].visit_content"], content)
	}

	accepted := []string{"在庫 < 10件", "A & B", "&lt;b&gt;", "値引き<5%", "改行\nあり"}
	for _, content := range accepted {
		assert.Empty(t, Struct(report(content, &content)), content)
	}

	problem := "<em>至急</em>"
	got := detailMap(Struct(report("訪問", &problem)))
	assert.Equal(t, "HTMLタグは入力できません", got["problem"])

	got = detailMap(Struct(dto.CommentRequest{Target: models.CommentTargetPlan, Content: "<br/>"}))
	assert.Equal(t, "HTMLタグは入力できません", got["content"])

	got = detailMap(Struct(report("   ", nil)))
	assert.Equal(t, "訪問内容を入力してください", got["visit_records[0].visit_content"])
}

func TestStructCustomerRequest(t *testing.T) {
	phone := "03-1234-5678"
	email := "info@example.com"
	ok := dto.CustomerRequest{CompanyName: "株式会社サンプル", ContactName: "山田", Phone: &phone, Email: &email}
	assert.Empty(t, Struct(ok))

	badPhone := "tel:0312345678"
	badEmail := "not-an-email"
	got := detailMap(Struct(dto.CustomerRequest{Phone: &badPhone, Email: &badEmail}))
	assert.Equal(t, "会社名を入力してください", got["company_name"])
	assert.Equal(t, "担当者名を入力してください", got["contact_name"])
	assert.Equal(t, "電話番号の形式で入力してください", got["phone"])
	assert.Equal(t, "メール形式で入力してください", got["email"])
}

func TestIsFutureDate(t *testing.T) {
	fixedNow(t, "2026-10-17")

	today, _ := time.Parse(models.DateLayout, "2026-10-17")
	assert.False(t, IsFutureDate(today))
	assert.False(t, IsFutureDate(today.AddDate(0, 0, -1)))
	assert.True(t, IsFutureDate(today.AddDate(0, 0, 1)))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "入力してください", Message("required", "", ""))
	assert.Equal(t, "コメントを入力してください", Message("notblank", "", "コメント"))
	assert.Equal(t, "20文字以内で入力してください", Message("max", "20", "電話番号"))
	assert.Equal(t, "HTMLタグは入力できません", Message("nomarkup", "", "訪問内容"))
}
