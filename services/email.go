package services

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily_report_app_go/config"
	"daily_report_app_go/models"
	"daily_report_app_go/services/i18n"
)

//go:embed emails/*
var emailTemplates embed.FS

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender delivers an email. Tests replace it to capture messages.
var EmailSender = SendEmail

// loadTemplate renders emails/<name>_<lang>.(html|txt), falling back to the
// base emails/<name>.(html|txt) which holds the Japanese version.
func loadTemplate(name, lang string, data interface{}) (string, string, error) {
	read := func(ext string) ([]byte, error) {
		if lang != "" && lang != i18n.DefaultLang {
			if b, err := emailTemplates.ReadFile(fmt.Sprintf("emails/%s_%s%s", name, lang, ext)); err == nil {
				return b, nil
			}
		}
		return emailTemplates.ReadFile("emails/" + name + ext)
	}

	htmlSrc, err := read(".html")
	if err != nil {
		return "", "", fmt.Errorf("failed to read template %s.html: %w", name, err)
	}
	htmlTmpl, err := htmltemplate.New(name).Parse(string(htmlSrc))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s.html: %w", name, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s.html: %w", name, err)
	}

	textSrc, err := read(".txt")
	if err != nil {
		return "", "", fmt.Errorf("failed to read template %s.txt: %w", name, err)
	}
	textTmpl, err := texttemplate.New(name).Parse(string(textSrc))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s.txt: %w", name, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s.txt: %w", name, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		zap.L().Info("email logged (test mode, not sent)",
			zap.Strings("to", email.To),
			zap.String("subject", email.Subject),
			zap.String("text", email.TextBody),
		)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	zap.L().Info("email sent", zap.String("id", sent.Id), zap.Strings("to", email.To))
	return nil
}

// SendEmailAsync sends a copy of email in a goroutine
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := EmailSender(cfg, emailCopy); err != nil {
			zap.L().Error("async email failed", zap.Strings("to", emailCopy.To), zap.Error(err))
		}
	}()
}

// ReportSubmittedEmailData contains data for the report_submitted template
type ReportSubmittedEmailData struct {
	ManagerName     string
	SalespersonName string
	ReportDate      string
	VisitCount      int
	ReportURL       string
}

// BuildReportSubmittedEmail creates the notification a manager receives
// when a report is submitted.
func BuildReportSubmittedEmail(appURL string, manager *models.User, report *models.DailyReport, lang string) (*Email, error) {
	data := ReportSubmittedEmailData{
		ManagerName:     manager.Name,
		SalespersonName: report.Salesperson.Name,
		ReportDate:      report.DateString(),
		VisitCount:      len(report.VisitRecords),
		ReportURL:       fmt.Sprintf("%s/reports/%d", strings.TrimRight(appURL, "/"), report.ID),
	}
	htmlBody, textBody, err := loadTemplate("report_submitted", lang, data)
	if err != nil {
		return nil, err
	}
	return &Email{
		To:       []string{manager.Email},
		Subject:  i18n.Translate(lang, "email.subject.report_submitted", map[string]interface{}{"name": data.SalespersonName, "date": data.ReportDate}),
		HTMLBody: htmlBody,
		TextBody: textBody,
	}, nil
}

// NotifyReportSubmitted emails every manager about a newly submitted report.
func NotifyReportSubmitted(cfg *config.Config, db *gorm.DB, report *models.DailyReport) {
	managers, err := ListManagers(db)
	if err != nil {
		zap.L().Error("failed to load managers for notification", zap.Uint("report_id", report.ID), zap.Error(err))
		return
	}
	for i := range managers {
		email, err := BuildReportSubmittedEmail(cfg.AppURL, &managers[i], report, i18n.DefaultLang)
		if err != nil {
			zap.L().Error("failed to build notification", zap.Uint("report_id", report.ID), zap.Error(err))
			return
		}
		SendEmailAsync(cfg, email)
	}
}
