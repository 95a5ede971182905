package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/motivationmailer/mailer/internal/model"
)

// QuoteQueue is the FIFO of fetched quotes waiting to be sent
type QuoteQueue struct {
	q sqlx.ExtContext
}

// NewQuoteQueue creates a QuoteQueue bound to q, usually a transaction
func NewQuoteQueue(q sqlx.ExtContext) *QuoteQueue {
	return &QuoteQueue{q: q}
}

// PushBatch appends quotes in order and returns how many were queued.
// Quotes without text are rejected with ErrInvalidInput before anything is written.
func (r *QuoteQueue) PushBatch(ctx context.Context, quotes []model.Quote) (int, error) {
	for i, quote := range quotes {
		if strings.TrimSpace(quote.Text) == "" {
			return 0, fmt.Errorf("quote %d has no text: %w", i, ErrInvalidInput)
		}
	}

	query := r.q.Rebind(`INSERT INTO pending_quotes (quote, author) VALUES (?, ?)`)
	for i, quote := range quotes {
		if _, err := r.q.ExecContext(ctx, query, quote.Text, quote.Author); err != nil {
			return i, fmt.Errorf("failed to queue quote: %w", err)
		}
	}
	return len(quotes), nil
}

// PeekOldest returns the quote with the smallest ID, or nil if the queue is empty
func (r *QuoteQueue) PeekOldest(ctx context.Context) (*model.PendingQuote, error) {
	var quote model.PendingQuote
	query := `SELECT id, quote, author FROM pending_quotes ORDER BY id LIMIT 1`
	err := sqlx.GetContext(ctx, r.q, &quote, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to peek pending quote: %w", err)
	}
	return &quote, nil
}

// PopOldest deletes the quote with the smallest ID. It reports false if the queue was empty.
func (r *QuoteQueue) PopOldest(ctx context.Context) (bool, error) {
	query := `DELETE FROM pending_quotes WHERE id = (SELECT MIN(id) FROM pending_quotes)`
	result, err := r.q.ExecContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to pop pending quote: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// Delete removes the quote with the given ID. It reports false if no such quote was queued.
func (r *QuoteQueue) Delete(ctx context.Context, id int64) (bool, error) {
	query := r.q.Rebind(`DELETE FROM pending_quotes WHERE id = ?`)
	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete pending quote: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// Count returns the number of queued quotes
func (r *QuoteQueue) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM pending_quotes`); err != nil {
		return 0, fmt.Errorf("failed to count pending quotes: %w", err)
	}
	return n, nil
}
