// Package memory provides in-memory store implementations for tests and
// fixture runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of
// storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.Transaction // keyed by batch id
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string][]*domain.Transaction),
	}
}

// InsertBatch stores a copy of the transactions under batchID.
// Returns storage.ErrDuplicateKey if the batch already exists.
func (s *TransactionStore) InsertBatch(_ context.Context, batchID string, txns []*domain.Transaction) error {
	if batchID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[batchID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store copies to prevent external mutation.
	stored := make([]*domain.Transaction, len(txns))
	for i, t := range txns {
		cp := *t
		stored[i] = &cp
	}
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].StartTime.Before(stored[j].StartTime)
	})
	s.data[batchID] = stored
	return nil
}

// GetByBatch retrieves all transactions of a batch, ordered by start_time.
func (s *TransactionStore) GetByBatch(_ context.Context, batchID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.data[batchID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	out := make([]*domain.Transaction, len(stored))
	for i, t := range stored {
		cp := *t
		out[i] = &cp
	}
	return out, nil
}

// GetByMethod retrieves a batch's transactions for one payment method.
func (s *TransactionStore) GetByMethod(ctx context.Context, batchID string, method domain.PaymentMethod) ([]*domain.Transaction, error) {
	all, err := s.GetByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	var out []*domain.Transaction
	for _, t := range all {
		if t.Method == method {
			out = append(out, t)
		}
	}
	return out, nil
}

// CountByMethod returns per-method transaction counts for a batch.
func (s *TransactionStore) CountByMethod(_ context.Context, batchID string) (map[domain.PaymentMethod]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.data[batchID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	counts := make(map[domain.PaymentMethod]int64)
	for _, t := range stored {
		counts[t.Method]++
	}
	return counts, nil
}

// HourlyMeanDurations returns mean duration per hour for a batch.
func (s *TransactionStore) HourlyMeanDurations(_ context.Context, batchID string) ([]domain.HourlyMean, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.data[batchID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	ds := domain.Dataset{Transactions: stored}
	return ds.HourlyMeanDurations(), nil
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
