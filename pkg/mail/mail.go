package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/applepeerke/fishing-sub000/pkg/config"
)

// Message is a plain-text outbound mail.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers outbound mail. The auth service only depends on this
// interface; delivery failures are the caller's policy decision.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers mail over plain SMTP.
type SMTPSender struct {
	addr string
	auth smtp.Auth
}

// NewSMTPSender builds a sender from the mail configuration.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
	}
}

// Send delivers the message.
func (s *SMTPSender) Send(msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(s.addr, s.auth, msg.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// NopSender discards mail. Used in tests and debug environments.
type NopSender struct {
	Sent []Message
}

// Send records the message without delivering it.
func (s *NopSender) Send(msg Message) error {
	s.Sent = append(s.Sent, msg)
	return nil
}
