package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"daily_report_app_go/models"
)

func TestExportReports(t *testing.T) {
	f := newReportFixture(t)
	second := createTestCustomer(t, f.db, "XYZ")

	_, err := CreateReport(f.db, f.sales, &ReportInput{
		ReportDate: daysAgo(2),
		Problem:    ptr("課題あり"),
		Status:     models.ReportStatusSubmitted,
		Visits: []VisitInput{
			{CustomerID: f.customer.ID, VisitContent: "訪問1", VisitedAt: visitAt(t, "09:00")},
			{CustomerID: second.ID, VisitContent: "訪問2", VisitedAt: visitAt(t, "13:15")},
		},
	})
	require.NoError(t, err)
	f.draft(t, f.other, daysAgo(1))

	_, err = ExportReports(f.db, f.sales, ReportFilter{})
	assert.True(t, IsCode(err, CodeForbidden))

	buf, err := ExportReports(f.db, f.manager, ReportFilter{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("日報一覧")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "報告日", rows[0][1])
	assert.Equal(t, "other", rows[1][2])
	assert.Equal(t, "下書き", rows[1][3])
	assert.Equal(t, "sales", rows[2][2])
	assert.Equal(t, "提出済", rows[2][3])
	assert.Equal(t, "2", rows[2][4])
	assert.Equal(t, "課題あり", rows[2][6])

	visits, err := wb.GetRows("訪問記録")
	require.NoError(t, err)
	require.Len(t, visits, 4)
	assert.Equal(t, "XYZ", visits[3][5])
	assert.Equal(t, "13:15", visits[3][4])

	t.Run("filters apply", func(t *testing.T) {
		buf, err := ExportReports(f.db, f.manager, ReportFilter{Status: "SUBMITTED"})
		require.NoError(t, err)
		wb, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer wb.Close()
		rows, err := wb.GetRows("日報一覧")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
