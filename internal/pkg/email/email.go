package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// NotificationService defines the interface for payroll notifications.
type NotificationService interface {
	SendPayslipAvailable(to, employeeName, periodLabel string) error
}

type notificationServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(cfg config.SMTPConfig) (NotificationService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &notificationServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type payslipAvailableData struct {
	EmployeeName string
	PeriodLabel  string
}

// SendPayslipAvailable notifies an employee that a payroll run for the
// given period was paid out and the payslip can be downloaded.
func (s *notificationServiceImpl) SendPayslipAvailable(to, employeeName, periodLabel string) error {
	data := payslipAvailableData{
		EmployeeName: employeeName,
		PeriodLabel:  periodLabel,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "payslip_available.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Your payslip for %s is ready", periodLabel), body.String())
}

func (s *notificationServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
