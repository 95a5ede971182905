package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/motivationmailer/mailer/internal/logger"
)

// QuoteMailer formats a quote and delivers it to each recipient separately,
// so no recipient sees the rest of the list.
type QuoteMailer struct {
	sender Sender
	log    *logger.Logger
}

// NewQuoteMailer creates a new QuoteMailer
func NewQuoteMailer(sender Sender, log *logger.Logger) *QuoteMailer {
	return &QuoteMailer{
		sender: sender,
		log:    log.WithComponent("quote_mailer"),
	}
}

// Send mails the quote to every recipient. Delivery continues past a failed
// recipient; all failures are returned together.
func (m *QuoteMailer) Send(ctx context.Context, subject, quote, author string, recipients []string) error {
	if len(recipients) == 0 {
		m.log.Info().Msg("recipient list is empty, no emails sent")
		return nil
	}

	htmlBody := QuoteEmailHTML(quote, author)
	textBody := QuoteEmailText(quote, author)

	var errs []error
	for _, to := range recipients {
		err := m.sender.Send(ctx, Message{
			To:       to,
			Subject:  subject,
			HTMLBody: htmlBody,
			TextBody: textBody,
		})
		if err != nil {
			m.log.Warn().Err(err).Str("recipient", to).Msg("failed to send email")
			errs = append(errs, fmt.Errorf("%s: %w", to, err))
			continue
		}
		m.log.Info().Str("recipient", to).Msg("email sent")
	}

	return errors.Join(errs...)
}
