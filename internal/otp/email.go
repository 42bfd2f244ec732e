package otp

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/officevault/backend/internal/config"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers recovery codes over SMTP.
type EmailSender struct {
	cfg *config.Config
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Send(to string, code string) error {
	if s.cfg.SMTPHost == "" || s.cfg.SMTPUser == "" {
		return fmt.Errorf("mail config missing")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Office Vault password recovery code")

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Office Vault</h2>
    <p>Your recovery code is:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>The code expires in 5 minutes. If you did not request it, ignore this message.</p>
  </div>
</body>
</html>`, code)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send recovery code: %w", err)
	}

	slog.Info("recovery code dispatched", "to", MaskContact(to))
	return nil
}

// LogSender writes codes to the log instead of dispatching them. Used
// when no SMTP configuration is present, mirroring local development.
type LogSender struct{}

func (LogSender) Send(to string, code string) error {
	slog.Info("recovery code (mail not configured)", "to", MaskContact(to), "code", code)
	return nil
}
