package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/motivationmailer/mailer/internal/config"
)

// Sender is the interface that all email providers must implement.
// This abstraction allows swapping email providers (SMTP, Gmail API)
// without changing business logic.
type Sender interface {
	// Send sends an email to the specified recipient.
	Send(ctx context.Context, msg Message) error
}

// Message represents an email message to be sent.
type Message struct {
	To       string // recipient email address
	Subject  string // email subject
	HTMLBody string // HTML email body
	TextBody string // plain-text fallback body
}

// Supported providers
const (
	ProviderSMTP  = "smtp"
	ProviderGmail = "gmail"
)

// NewSender builds the Sender selected by cfg.Provider
func NewSender(ctx context.Context, cfg config.EmailConfig) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderSMTP, "":
		s, err := NewSMTPSender(SMTPConfig{
			Host:          cfg.SMTP.Host,
			Port:          cfg.SMTP.Port,
			Username:      cfg.SMTP.Username,
			Password:      cfg.SMTP.Password,
			SSL:           cfg.SMTP.SSL,
			SenderAddress: cfg.SenderAddress,
			SenderName:    cfg.SenderName,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderGmail:
		var (
			s   *GmailSender
			err error
		)
		if cfg.Gmail.RefreshToken != "" {
			s, err = NewGmailSenderWithToken(ctx, cfg.Gmail.ClientID, cfg.Gmail.ClientSecret,
				cfg.Gmail.RefreshToken, cfg.SenderAddress, cfg.SenderName)
		} else {
			s, err = NewGmailSender(ctx, GmailConfig{
				CredentialsJSON: cfg.Gmail.CredentialsJSON,
				SenderAddress:   cfg.SenderAddress,
				SenderName:      cfg.SenderName,
			})
		}
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s (supported: %s, %s)", cfg.Provider, ProviderSMTP, ProviderGmail)
	}
}
