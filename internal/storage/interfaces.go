// Package storage defines the dataset sink interfaces. Stores are
// append-only: the dataset is written once per run and only read
// afterwards.
package storage

import (
	"context"

	"mpesa-latency-lab/internal/domain"
)

// TransactionStore provides access to persisted transaction datasets.
type TransactionStore interface {
	// InsertBatch stores the transactions of one generation run under the
	// given batch id. Returns ErrInvalidInput for an empty batch id.
	InsertBatch(ctx context.Context, batchID string, txns []*domain.Transaction) error

	// GetByBatch retrieves all transactions of a batch, ordered by
	// start_time ASC. Returns ErrNotFound for an unknown batch.
	GetByBatch(ctx context.Context, batchID string) ([]*domain.Transaction, error)

	// GetByMethod retrieves a batch's transactions for one payment method,
	// ordered by start_time ASC.
	GetByMethod(ctx context.Context, batchID string, method domain.PaymentMethod) ([]*domain.Transaction, error)

	// CountByMethod returns the number of transactions per payment method
	// within a batch.
	CountByMethod(ctx context.Context, batchID string) (map[domain.PaymentMethod]int64, error)

	// HourlyMeanDurations returns the mean duration per hour of day for a
	// batch, ordered by hour 0-23. Hours with no transactions have a zero
	// mean and count.
	HourlyMeanDurations(ctx context.Context, batchID string) ([]domain.HourlyMean, error)
}
