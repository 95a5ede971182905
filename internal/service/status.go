package service

import (
	"context"

	"github.com/motivationmailer/mailer/internal/model"
	"github.com/motivationmailer/mailer/internal/repository"
)

// Status is a snapshot of the store for display
type Status struct {
	Subscribers []model.Subscriber
	Pending     int
	Next        *model.PendingQuote
}

// LoadStatus reads the subscribers and the state of the quote queue in one transaction
func LoadStatus(ctx context.Context, uow *repository.UnitOfWork) (*Status, error) {
	var st Status
	err := uow.Do(ctx, func(p repository.Provider) error {
		var err error
		if st.Subscribers, err = p.Subscribers().ListAll(ctx); err != nil {
			return err
		}
		if st.Pending, err = p.Quotes().Count(ctx); err != nil {
			return err
		}
		st.Next, err = p.Quotes().PeekOldest(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}
