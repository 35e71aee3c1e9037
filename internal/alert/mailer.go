// Package alert delivers per-tender email notifications. Delivery is
// best effort: a failed send is counted and logged but never blocks the
// run or the remaining alerts.
package alert

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/praeto/tendertrack/internal/model"
)

// Alerter sends one notification per newly accepted tender.
type Alerter interface {
	// Enabled reports whether delivery is configured. A disabled alerter
	// turns Send into a logged no-op.
	Enabled() bool
	Send(ctx context.Context, t *model.Tender) error
}

// SMTPMailer sends alerts through an authenticated SMTP relay with
// STARTTLS, matching what Office 365 style relays expect on port 587.
type SMTPMailer struct {
	cfg model.AlertConfig
	log *zap.Logger
}

// NewSMTP builds the mailer. Missing credentials or recipients are not
// an error; they simply disable delivery.
func NewSMTP(cfg model.AlertConfig, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// Enabled reports whether credentials and recipients are configured.
func (m *SMTPMailer) Enabled() bool {
	return m.cfg.Username != "" && m.cfg.Password != "" && len(m.cfg.Recipients) > 0
}

// Send delivers one alert email. When the mailer is disabled the call
// logs and returns nil so the pipeline treats it as "nothing to do".
func (m *SMTPMailer) Send(ctx context.Context, t *model.Tender) error {
	if !m.Enabled() {
		m.log.Info("alert delivery disabled, skipping",
			zap.String("tender", t.Key().String()))
		return nil
	}

	body, err := RenderBody(t, m.cfg.DashboardURL)
	if err != nil {
		return err
	}
	msg := m.buildMessage(Subject(t), body)

	if err := m.deliver(ctx, msg); err != nil {
		return fmt.Errorf("alert: send %s: %w", t.Key(), err)
	}

	m.log.Info("alert sent",
		zap.String("tender", t.Key().String()),
		zap.String("category", t.Category),
		zap.Int("recipients", len(m.cfg.Recipients)))
	return nil
}

func (m *SMTPMailer) buildMessage(subject, htmlBody string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.cfg.Username)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(m.cfg.Recipients, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String())
}

// deliver dials the relay, upgrades to TLS and submits the message.
// net/smtp has no context support, so the dial honors ctx and the rest
// rides on the connection's natural failure modes.
func (m *SMTPMailer) deliver(ctx context.Context, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPServer, m.cfg.SMTPPort)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.cfg.SMTPServer)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.SMTPServer}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPServer)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(m.cfg.Username); err != nil {
		return err
	}
	for _, rcpt := range m.cfg.Recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
