package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/motivationmailer/mailer/internal/model"
)

// BatchResult reports, per address, whether a batch operation changed the store.
// Skipped addresses are not errors: they were already present (add) or absent (remove).
type BatchResult struct {
	Applied []string
	Skipped []string
}

// SubscriberRepository handles subscriber persistence
type SubscriberRepository struct {
	q sqlx.ExtContext
}

// NewSubscriberRepository creates a SubscriberRepository bound to q, usually a transaction
func NewSubscriberRepository(q sqlx.ExtContext) *SubscriberRepository {
	return &SubscriberRepository{q: q}
}

// Exists checks if a subscriber with exactly this address exists
func (r *SubscriberRepository) Exists(ctx context.Context, address string) (bool, error) {
	query := r.q.Rebind(`SELECT EXISTS(SELECT 1 FROM subscribers WHERE address = ?)`)
	var exists bool
	if err := sqlx.GetContext(ctx, r.q, &exists, query, address); err != nil {
		return false, fmt.Errorf("failed to check subscriber existence: %w", err)
	}
	return exists, nil
}

// AddBatch inserts every address that is not already stored.
// Repeated addresses within the batch are checked individually, so [a, a] stores a once.
// A storage error stops the batch; the caller's unit of work rolls back what was written.
func (r *SubscriberRepository) AddBatch(ctx context.Context, addresses []string) (BatchResult, error) {
	var res BatchResult
	insert := r.q.Rebind(`INSERT INTO subscribers (address) VALUES (?) ON CONFLICT (address) DO NOTHING`)

	for _, address := range addresses {
		exists, err := r.Exists(ctx, address)
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped = append(res.Skipped, address)
			continue
		}

		result, err := r.q.ExecContext(ctx, insert, address)
		if err != nil {
			return res, fmt.Errorf("failed to add subscriber %s: %w", address, err)
		}
		// Another process inserted the address between the check and the insert
		if n, _ := result.RowsAffected(); n == 0 {
			res.Skipped = append(res.Skipped, address)
			continue
		}
		res.Applied = append(res.Applied, address)
	}

	return res, nil
}

// RemoveBatch deletes every address that is stored
func (r *SubscriberRepository) RemoveBatch(ctx context.Context, addresses []string) (BatchResult, error) {
	var res BatchResult
	query := r.q.Rebind(`DELETE FROM subscribers WHERE address = ?`)

	for _, address := range addresses {
		result, err := r.q.ExecContext(ctx, query, address)
		if err != nil {
			return res, fmt.Errorf("failed to remove subscriber %s: %w", address, err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			res.Skipped = append(res.Skipped, address)
			continue
		}
		res.Applied = append(res.Applied, address)
	}

	return res, nil
}

// ListAll returns every subscriber. The result is empty, not nil, when there are none.
func (r *SubscriberRepository) ListAll(ctx context.Context) ([]model.Subscriber, error) {
	subscribers := []model.Subscriber{}
	query := `SELECT id, address FROM subscribers ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.q, &subscribers, query); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subscribers, nil
}
