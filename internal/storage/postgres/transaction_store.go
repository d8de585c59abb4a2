package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/storage"
)

// TransactionStore is a PostgreSQL implementation of
// storage.TransactionStore.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a Postgres-backed transaction store.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// InsertBatch stores all transactions of a run in one transaction, so a
// failed run leaves no partial batch behind.
func (s *TransactionStore) InsertBatch(ctx context.Context, batchID string, txns []*domain.Transaction) error {
	if batchID == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert batch: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO dataset_batches (batch_id, record_count) VALUES ($1, $2)`,
		batchID, len(txns))
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert batch row: %w", err)
	}

	rows := make([][]interface{}, len(txns))
	for i, t := range txns {
		rows[i] = []interface{}{
			batchID, t.StartTime, t.EndTime, string(t.Method),
			t.Amount, t.UserID, t.TimeOfDay, t.Duration,
		}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"transactions"},
		[]string{"batch_id", "start_time", "end_time", "payment_method", "amount", "user_id", "time_of_day", "duration"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy transactions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert batch: %w", err)
	}
	return nil
}

// GetByBatch retrieves all transactions of a batch, ordered by start_time.
func (s *TransactionStore) GetByBatch(ctx context.Context, batchID string) ([]*domain.Transaction, error) {
	if err := s.checkBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT start_time, end_time, payment_method, amount, user_id, time_of_day, duration
		FROM transactions
		WHERE batch_id = $1
		ORDER BY start_time ASC`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByMethod retrieves a batch's transactions for one payment method.
func (s *TransactionStore) GetByMethod(ctx context.Context, batchID string, method domain.PaymentMethod) ([]*domain.Transaction, error) {
	if err := s.checkBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT start_time, end_time, payment_method, amount, user_id, time_of_day, duration
		FROM transactions
		WHERE batch_id = $1 AND payment_method = $2
		ORDER BY start_time ASC`, batchID, string(method))
	if err != nil {
		return nil, fmt.Errorf("query transactions by method: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// CountByMethod returns per-method transaction counts for a batch.
func (s *TransactionStore) CountByMethod(ctx context.Context, batchID string) (map[domain.PaymentMethod]int64, error) {
	if err := s.checkBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT payment_method, COUNT(*)
		FROM transactions
		WHERE batch_id = $1
		GROUP BY payment_method`, batchID)
	if err != nil {
		return nil, fmt.Errorf("count by method: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.PaymentMethod]int64)
	for rows.Next() {
		var methodStr string
		var count int64
		if err := rows.Scan(&methodStr, &count); err != nil {
			return nil, fmt.Errorf("scan method count: %w", err)
		}
		method, err := domain.ParseMethod(methodStr)
		if err != nil {
			return nil, err
		}
		counts[method] = count
	}
	return counts, rows.Err()
}

// HourlyMeanDurations returns mean duration per hour for a batch, all 24
// hours present.
func (s *TransactionStore) HourlyMeanDurations(ctx context.Context, batchID string) ([]domain.HourlyMean, error) {
	if err := s.checkBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT time_of_day, AVG(duration), COUNT(*)
		FROM transactions
		WHERE batch_id = $1
		GROUP BY time_of_day
		ORDER BY time_of_day ASC`, batchID)
	if err != nil {
		return nil, fmt.Errorf("hourly mean durations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.HourlyMean, 24)
	for h := range out {
		out[h].Hour = h
	}
	for rows.Next() {
		var hour, count int
		var mean float64
		if err := rows.Scan(&hour, &mean, &count); err != nil {
			return nil, fmt.Errorf("scan hourly mean: %w", err)
		}
		if hour < 0 || hour > 23 {
			return nil, fmt.Errorf("%w: hour %d out of range", storage.ErrInvalidInput, hour)
		}
		out[hour].MeanDuration = mean
		out[hour].Count = count
	}
	return out, rows.Err()
}

// checkBatch maps an unknown batch id to storage.ErrNotFound.
func (s *TransactionStore) checkBatch(ctx context.Context, batchID string) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM dataset_batches WHERE batch_id = $1)`, batchID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check batch: %w", err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var methodStr string
		if err := rows.Scan(&t.StartTime, &t.EndTime, &methodStr, &t.Amount, &t.UserID, &t.TimeOfDay, &t.Duration); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		method, err := domain.ParseMethod(methodStr)
		if err != nil {
			return nil, err
		}
		t.Method = method
		out = append(out, &t)
	}
	return out, rows.Err()
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
