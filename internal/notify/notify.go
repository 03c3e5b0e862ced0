// Package notify sends order notification emails.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/woozymasta/beato-configurator/internal/checkout"
)

// PaymentSubject is the subject of approved payment emails.
const PaymentSubject = "¡Nuevo pago recibido!"

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// PaymentMessage formats the notification of an approved payment.
func PaymentMessage(to string, c checkout.Confirmation) Message {
	spec := c.Extra1
	if strings.TrimSpace(spec) == "" {
		spec = "No especificadas"
	}

	var b strings.Builder
	b.WriteString("Pago aprobado.\n")
	fmt.Fprintf(&b, "Comprador: %s\n", c.EmailBuyer)
	fmt.Fprintf(&b, "Referencia: %s\n", c.ReferenceSale)
	fmt.Fprintf(&b, "Producto: %s\n", c.Description)
	fmt.Fprintf(&b, "Valor: %s\n", c.Value)
	fmt.Fprintf(&b, "Especificaciones: %s", spec)

	return Message{To: to, Subject: PaymentSubject, Body: b.String()}
}

// SMTPConfig configures the SMTP mailer.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	From     string `json:"from"`      // defaults to Username
	FromName string `json:"from_name"` // display name (e.g. Notificaciones Beato)
}

// SMTPMailer sends through an authenticated SMTP server.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer validates the configuration.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host not set")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp sender not set")
	}

	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers one message.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	email := mail.NewMsg()
	if m.cfg.FromName != "" {
		if err := email.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
			return fmt.Errorf("set from: %w", err)
		}
	} else if err := email.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := email.To(msg.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	email.Subject(msg.Subject)
	email.SetBodyString(mail.TypeTextPlain, msg.Body)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

// LogMailer logs messages instead of sending them. Used when SMTP is not configured.
type LogMailer struct {
	Log *slog.Logger
}

// Send logs the message.
func (m LogMailer) Send(_ context.Context, msg Message) error {
	m.Log.Info("mail not sent: smtp not configured", "to", msg.To, "subject", msg.Subject)

	return nil
}
