package email

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the configuration for the SMTP email sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// SSL selects implicit TLS; otherwise STARTTLS is required
	SSL bool
	// SenderAddress defaults to Username when empty
	SenderAddress string
	SenderName    string
}

// SMTPSender implements Sender over SMTP.
type SMTPSender struct {
	client        *mail.Client
	senderAddress string
	senderName    string
}

// NewSMTPSender creates a new SMTPSender. No connection is made until Send.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	sender := cfg.SenderAddress
	if sender == "" {
		sender = cfg.Username
	}
	if sender == "" {
		return nil, fmt.Errorf("smtp: sender address is required")
	}

	opts := []mail.Option{mail.WithTimeout(15 * time.Second)}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: failed to create mail client: %w", err)
	}

	return &SMTPSender{
		client:        client,
		senderAddress: sender,
		senderName:    cfg.SenderName,
	}, nil
}

// Send dials the server and delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(s.senderAddress, s.senderName, msg)
	if err != nil {
		return fmt.Errorf("smtp: %w", err)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}
	return nil
}
