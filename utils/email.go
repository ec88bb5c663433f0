package utils

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// ErrMailNotConfigured is returned by SendMail when SMTP settings are missing.
// Callers treat it as a mock send.
var ErrMailNotConfigured = errors.New("smtp not configured")

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != ""
}

// Mail is a plain text + HTML message to a single recipient.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

const mailBoundary = "----=_HOTEL_EMAIL_BOUNDARY"

func safeHeader(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "\r", " "), "\n", " ")
}

// BuildMessage renders a multipart/alternative MIME message.
func BuildMessage(from string, m Mail) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", safeHeader(from)))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", safeHeader(m.To)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", safeHeader(m.Subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", mailBoundary))

	// plain
	sb.WriteString(fmt.Sprintf("--%s\r\n", mailBoundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(m.Text + "\r\n")

	// html
	if m.HTML != "" {
		sb.WriteString(fmt.Sprintf("--%s\r\n", mailBoundary))
		sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		sb.WriteString(m.HTML + "\r\n")
	}

	sb.WriteString(fmt.Sprintf("--%s--\r\n", mailBoundary))
	return []byte(sb.String())
}

// SendMail delivers m over SMTP with PLAIN auth.
func SendMail(cfg SMTPConfig, m Mail) error {
	if !cfg.Configured() {
		return ErrMailNotConfigured
	}
	if strings.TrimSpace(m.To) == "" {
		return errors.New("mail recipient is empty")
	}
	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.Username)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	if err := smtp.SendMail(addr, auth, cfg.Username, []string{m.To}, BuildMessage(from, m)); err != nil {
		return fmt.Errorf("send mail to %s: %w", MaskEmail(m.To), err)
	}
	return nil
}

// HTMLEscape is a minimal escaper for the small strings we put in mails.
func HTMLEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
