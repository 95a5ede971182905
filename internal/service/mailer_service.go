package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/motivationmailer/mailer/internal/logger"
	"github.com/motivationmailer/mailer/internal/model"
	"github.com/motivationmailer/mailer/internal/quotes"
	"github.com/motivationmailer/mailer/internal/repository"
)

// Mailer service errors
var (
	ErrSendInProgress = errors.New("another send is already in progress")
)

const (
	// DefaultSubject is used when no subject is configured
	DefaultSubject = "Quote of the Day"

	sendLockKey        = "mailer:send_lock"
	defaultSendLockTTL = 5 * time.Minute
)

// QuoteSender delivers one quote to a list of recipients
type QuoteSender interface {
	Send(ctx context.Context, subject, quote, author string, recipients []string) error
}

// SendStatus is the outcome of a send cycle
type SendStatus string

const (
	SendStatusSent          SendStatus = "sent"
	SendStatusNoQuote       SendStatus = "no_quote"
	SendStatusNoSubscribers SendStatus = "no_subscribers"
)

// SendReport describes what a send cycle did
type SendReport struct {
	Status     SendStatus
	Quote      *model.PendingQuote
	Fetched    int
	Recipients int
}

// MailerOptions configures a MailerService
type MailerOptions struct {
	Subject string
	LockTTL time.Duration
}

// MailerService runs the quote send cycle
type MailerService struct {
	uow     *repository.UnitOfWork
	fetcher quotes.Fetcher
	sender  QuoteSender
	locker  Locker
	subject string
	lockTTL time.Duration
	log     *logger.Logger
}

// NewMailerService creates a new MailerService. A nil locker disables the send lock.
func NewMailerService(
	uow *repository.UnitOfWork,
	fetcher quotes.Fetcher,
	sender QuoteSender,
	locker Locker,
	opts MailerOptions,
	log *logger.Logger,
) *MailerService {
	if locker == nil {
		locker = NopLocker{}
	}
	if opts.Subject == "" {
		opts.Subject = DefaultSubject
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultSendLockTTL
	}
	return &MailerService{
		uow:     uow,
		fetcher: fetcher,
		sender:  sender,
		locker:  locker,
		subject: opts.Subject,
		lockTTL: opts.LockTTL,
		log:     log.WithComponent("mailer_service"),
	}
}

// Send mails the oldest pending quote to every subscriber, fetching a new batch
// of quotes first if none is pending. The quote is removed from the queue only
// after the mail collaborator returns successfully, so delivery is at-least-once:
// if the process dies between sending and removal, the quote is sent again next cycle.
func (s *MailerService) Send(ctx context.Context) (SendReport, error) {
	release, ok, err := s.locker.Acquire(ctx, sendLockKey, s.lockTTL)
	if err != nil {
		return SendReport{}, fmt.Errorf("failed to acquire send lock: %w", err)
	}
	if !ok {
		return SendReport{}, ErrSendInProgress
	}
	defer release()

	quote, fetched, err := s.nextQuote(ctx)
	if err != nil {
		return SendReport{}, err
	}
	report := SendReport{Quote: quote, Fetched: fetched}
	if quote == nil {
		s.log.Info().Msg("no quote available, nothing to send")
		report.Status = SendStatusNoQuote
		return report, nil
	}

	var subscribers []model.Subscriber
	err = s.uow.Do(ctx, func(p repository.Provider) error {
		var err error
		subscribers, err = p.Subscribers().ListAll(ctx)
		return err
	})
	if err != nil {
		return report, err
	}
	if len(subscribers) == 0 {
		s.log.Info().Int64("quote_id", quote.ID).Msg("no subscribers, quote stays pending")
		report.Status = SendStatusNoSubscribers
		return report, nil
	}

	recipients := make([]string, 0, len(subscribers))
	for _, sub := range subscribers {
		recipients = append(recipients, sub.Address)
	}
	report.Recipients = len(recipients)

	if err := s.sender.Send(ctx, s.subject, quote.Quote, quote.Author, recipients); err != nil {
		return report, fmt.Errorf("failed to send quote %d: %w", quote.ID, err)
	}

	var removed bool
	err = s.uow.Do(ctx, func(p repository.Provider) error {
		var err error
		removed, err = p.Quotes().Delete(ctx, quote.ID)
		return err
	})
	if err != nil {
		return report, fmt.Errorf("quote %d was sent but not removed from the queue: %w", quote.ID, err)
	}
	if !removed {
		s.log.Warn().Int64("quote_id", quote.ID).Msg("sent quote was already removed from the queue")
	}

	s.log.Info().
		Int64("quote_id", quote.ID).
		Int("recipients", len(recipients)).
		Msg("quote sent")
	report.Status = SendStatusSent
	return report, nil
}

// nextQuote peeks the queue and refills it from the quote source when empty.
// A failed or empty fetch yields a nil quote, not an error.
func (s *MailerService) nextQuote(ctx context.Context) (*model.PendingQuote, int, error) {
	var next *model.PendingQuote
	err := s.uow.Do(ctx, func(p repository.Provider) error {
		var err error
		next, err = p.Quotes().PeekOldest(ctx)
		return err
	})
	if err != nil || next != nil {
		return next, 0, err
	}

	fetched, err := s.fetcher.FetchQuotes(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to fetch quotes")
		return nil, 0, nil
	}
	if len(fetched) == 0 {
		return nil, 0, nil
	}

	pushed := 0
	err = s.uow.Do(ctx, func(p repository.Provider) error {
		queue := p.Quotes()
		// Another run may have refilled the queue since the first peek
		current, err := queue.PeekOldest(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			if pushed, err = queue.PushBatch(ctx, fetched); err != nil {
				return err
			}
		}
		next, err = queue.PeekOldest(ctx)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to queue fetched quotes: %w", err)
	}

	s.log.Info().Int("count", pushed).Msg("queued fetched quotes")
	return next, pushed, nil
}
