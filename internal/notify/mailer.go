package notify

import (
	"fmt"
	"net/smtp"
)

// Mailer sends plain text email over SMTP.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m *Mailer) configured() bool {
	return m != nil && m.Host != "" && m.Port != 0 && m.From != ""
}

// Send delivers one message. Returns an error when SMTP is not configured so
// the worker can log and move on.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.configured() {
		return fmt.Errorf("smtp not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}
