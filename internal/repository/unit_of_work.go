package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/motivationmailer/mailer/internal/database"
)

// Provider hands out repositories bound to the active transaction
type Provider interface {
	Subscribers() *SubscriberRepository
	Quotes() *QuoteQueue
}

type txProvider struct {
	tx *sqlx.Tx
}

func (p *txProvider) Subscribers() *SubscriberRepository {
	return NewSubscriberRepository(p.tx)
}

func (p *txProvider) Quotes() *QuoteQueue {
	return NewQuoteQueue(p.tx)
}

// UnitOfWork runs repository calls atomically
type UnitOfWork struct {
	db *database.DB
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(db *database.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do runs fn in a transaction. It commits once if fn returns nil and rolls back
// if fn returns an error or panics; the error or panic is then passed on.
func (u *UnitOfWork) Do(ctx context.Context, fn func(p Provider) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&txProvider{tx: tx}); err != nil {
		done = true
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to roll back: %w", rbErr))
		}
		return err
	}

	done = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
