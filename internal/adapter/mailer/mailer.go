// Package mailer delivers notification emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/config"
)

// sendFunc matches smtp.SendMail. Made a field for testing purposes.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends HTML messages. A Mailer without an SMTP host logs and drops
// every message.
type Mailer struct {
	cfg  config.EmailConfig
	send sendFunc
	now  func() time.Time
	log  *slog.Logger
}

// New creates a Mailer.
func New(cfg config.EmailConfig, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:  cfg,
		send: smtp.SendMail,
		now:  time.Now,
		log:  logger.With("adapter", "mailer"),
	}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != ""
}

// Send delivers one message to all recipients.
func (m *Mailer) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !m.Enabled() {
		m.log.WarnContext(ctx, "smtp not configured, dropping email",
			slog.String("subject", subject),
			slog.Int("recipients", len(to)),
		)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from, err := mail.ParseAddress(m.cfg.From)
	if err != nil {
		return fmt.Errorf("mailer.Send parse from: %w", err)
	}

	msg := m.compose(from, to, subject, html)
	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))

	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	if err := m.send(addr, auth, from.Address, to, msg); err != nil {
		return fmt.Errorf("mailer.Send: %w", err)
	}

	m.log.InfoContext(ctx, "email sent",
		slog.String("subject", subject),
		slog.Int("recipients", len(to)),
	)
	return nil
}

func (m *Mailer) compose(from *mail.Address, to []string, subject, html string) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + m.now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("Message-ID: <" + uuid.NewString() + "@" + m.cfg.SMTPHost + ">\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return b.Bytes()
}
