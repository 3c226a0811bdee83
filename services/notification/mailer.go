package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"serenity/config"
)

// Mailer delivers one composed e-mail. The queue worker owns retries, so a
// Mailer only needs a single synchronous attempt.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends plain-text mail over authenticated SMTP.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		Host: config.AppConfig.SMTPHost,
		Port: config.AppConfig.SMTPPort,
		User: config.AppConfig.SMTPUser,
		Pass: config.AppConfig.SMTPPass,
		From: config.AppConfig.FromEmail,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
