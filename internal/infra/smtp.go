package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"avyyan/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailDisabled is returned when no SMTP host is configured.
var ErrMailDisabled = errors.New("mailer: smtp not configured")

// Mailer sends notification emails over SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	company  string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		company:  cfg.CompanyName,
	}
}

// Enabled reports whether the mailer has somewhere to send to.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers a plain-text message, attaching attachmentPath when set.
func (m *Mailer) Send(to, subject, body, attachmentPath string) error {
	if !m.Enabled() {
		return ErrMailDisabled
	}
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.company, m.from)
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("mailer: attach file: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
