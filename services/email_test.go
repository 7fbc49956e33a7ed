package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily_report_app_go/config"
	"daily_report_app_go/models"
)

func TestBuildReportSubmittedEmail(t *testing.T) {
	manager := &models.User{Name: "鈴木", Email: "suzuki@example.com"}
	report := &models.DailyReport{
		ID:           12,
		ReportDate:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Salesperson:  models.User{Name: "山田"},
		VisitRecords: []models.VisitRecord{{}, {}},
	}

	email, err := BuildReportSubmittedEmail("http://localhost:3000/", manager, report, "ja")
	require.NoError(t, err)
	assert.Equal(t, []string{"suzuki@example.com"}, email.To)
	assert.Contains(t, email.Subject, "山田")
	assert.Contains(t, email.Subject, "2024-05-01")
	assert.Contains(t, email.TextBody, "http://localhost:3000/reports/12")
	assert.Contains(t, email.TextBody, "訪問件数: 2件")
	assert.Contains(t, email.HTMLBody, "鈴木")

	en, err := BuildReportSubmittedEmail("http://localhost:3000", manager, report, "en")
	require.NoError(t, err)
	assert.NotEqual(t, email.TextBody, en.TextBody)
	assert.Contains(t, en.TextBody, "http://localhost:3000/reports/12")
}

func TestSendEmailTestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}
	assert.NoError(t, SendEmail(cfg, &Email{To: []string{"a@example.com"}, Subject: "s", TextBody: "t"}))

	cfg = &config.Config{}
	assert.Error(t, SendEmail(cfg, &Email{To: []string{"a@example.com"}, Subject: "s", TextBody: "t"}))
}

func TestNotifyReportSubmitted(t *testing.T) {
	f := newReportFixture(t)
	createTestUser(t, f.db, "manager2", models.RoleManager)

	var mu sync.Mutex
	var sent []*Email
	done := make(chan struct{}, 4)
	original := EmailSender
	EmailSender = func(cfg *config.Config, email *Email) error {
		mu.Lock()
		sent = append(sent, email)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}
	t.Cleanup(func() { EmailSender = original })

	report := f.draft(t, f.sales, daysAgo(1))
	NotifyReportSubmitted(&config.Config{AppURL: "http://app"}, f.db, report)

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("notification was not sent")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 2)
	recipients := []string{sent[0].To[0], sent[1].To[0]}
	assert.ElementsMatch(t, []string{"manager@example.com", "manager2@example.com"}, recipients)
}
