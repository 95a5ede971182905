package main

import (
	"errors"
	"fmt"

	"github.com/motivationmailer/mailer/internal/database"
	"github.com/motivationmailer/mailer/internal/email"
	"github.com/motivationmailer/mailer/internal/quotes"
	"github.com/motivationmailer/mailer/internal/service"
	"github.com/spf13/cobra"
)

func newSendCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Send the next pending quote to every subscriber",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()

			sender, err := email.NewSender(ctx, a.cfg.Email)
			if err != nil {
				return fmt.Errorf("failed to create email sender: %w", err)
			}

			var locker service.Locker
			if a.cfg.Redis.Enabled {
				rdb, err := database.NewRedis(a.cfg.Redis)
				if err != nil {
					return err
				}
				defer rdb.Close()
				locker = service.NewRedisLocker(rdb, a.log)
			}

			svc := service.NewMailerService(
				a.uow,
				quotes.NewZenQuotes(a.cfg.Quotes),
				email.NewQuoteMailer(sender, a.log),
				locker,
				service.MailerOptions{
					Subject: a.cfg.Email.Subject,
					LockTTL: a.cfg.Redis.LockTTL,
				},
				a.log,
			)

			report, err := svc.Send(ctx)
			if errors.Is(err, service.ErrSendInProgress) {
				fmt.Fprintln(cmd.OutOrStdout(), "Another send is already in progress, skipping.")
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch report.Status {
			case service.SendStatusSent:
				fmt.Fprintf(out, "Quote sent to %d subscriber(s): %q - %s\n",
					report.Recipients, report.Quote.Quote, report.Quote.Author)
			case service.SendStatusNoSubscribers:
				fmt.Fprintln(out, "No subscribers in the list, the quote stays pending.")
			case service.SendStatusNoQuote:
				fmt.Fprintln(out, "No quote available to send.")
			}
			return nil
		},
	}
}
