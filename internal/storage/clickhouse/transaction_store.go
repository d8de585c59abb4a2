package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/storage"
)

// TransactionStore is a ClickHouse implementation of
// storage.TransactionStore.
type TransactionStore struct {
	conn *Conn
}

// NewTransactionStore creates a ClickHouse-backed transaction store.
func NewTransactionStore(conn *Conn) *TransactionStore {
	return &TransactionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// InsertBatch stores the transactions of one run. Fails with
// ErrDuplicateKey if the batch id already exists.
func (s *TransactionStore) InsertBatch(ctx context.Context, batchID string, txns []*domain.Transaction) error {
	if batchID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.batchExists(ctx, batchID)
	if err != nil {
		return fmt.Errorf("check batch exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO transactions (
			batch_id, start_time, end_time, payment_method, amount, user_id, time_of_day, duration
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range txns {
		err = batch.Append(
			batchID, t.StartTime.UTC(), t.EndTime.UTC(), string(t.Method),
			t.Amount, uint32(t.UserID), uint8(t.TimeOfDay), t.Duration,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByBatch retrieves all transactions of a batch, ordered by start_time.
func (s *TransactionStore) GetByBatch(ctx context.Context, batchID string) ([]*domain.Transaction, error) {
	if err := s.checkBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(ctx, `
		SELECT start_time, end_time, payment_method, amount, user_id, time_of_day, duration
		FROM transactions
		WHERE batch_id = ?
		ORDER BY start_time ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query by batch: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByMethod retrieves a batch's transactions for one payment method.
func (s *TransactionStore) GetByMethod(ctx context.Context, batchID string, method domain.PaymentMethod) ([]*domain.Transaction, error) {
	if err := s.checkBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(ctx, `
		SELECT start_time, end_time, payment_method, amount, user_id, time_of_day, duration
		FROM transactions
		WHERE batch_id = ? AND payment_method = ?
		ORDER BY start_time ASC
	`, batchID, string(method))
	if err != nil {
		return nil, fmt.Errorf("query by method: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// CountByMethod returns per-method transaction counts for a batch.
func (s *TransactionStore) CountByMethod(ctx context.Context, batchID string) (map[domain.PaymentMethod]int64, error) {
	if err := s.checkBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(ctx, `
		SELECT payment_method, count() AS cnt
		FROM transactions
		WHERE batch_id = ?
		GROUP BY payment_method
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("count by method: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.PaymentMethod]int64)
	for rows.Next() {
		var methodStr string
		var count uint64
		if err := rows.Scan(&methodStr, &count); err != nil {
			return nil, fmt.Errorf("scan method count: %w", err)
		}
		method, err := domain.ParseMethod(methodStr)
		if err != nil {
			return nil, err
		}
		counts[method] = int64(count)
	}
	return counts, rows.Err()
}

// HourlyMeanDurations returns mean duration per hour for a batch, all 24
// hours present.
func (s *TransactionStore) HourlyMeanDurations(ctx context.Context, batchID string) ([]domain.HourlyMean, error) {
	if err := s.checkBatch(ctx, batchID); err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(ctx, `
		SELECT time_of_day, avg(duration) AS mean_duration, count() AS cnt
		FROM transactions
		WHERE batch_id = ?
		GROUP BY time_of_day
		ORDER BY time_of_day ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("hourly mean durations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.HourlyMean, 24)
	for h := range out {
		out[h].Hour = h
	}
	for rows.Next() {
		var hour uint8
		var mean float64
		var count uint64
		if err := rows.Scan(&hour, &mean, &count); err != nil {
			return nil, fmt.Errorf("scan hourly mean: %w", err)
		}
		if hour > 23 {
			return nil, fmt.Errorf("%w: hour %d out of range", storage.ErrInvalidInput, hour)
		}
		out[hour].MeanDuration = mean
		out[hour].Count = int(count)
	}
	return out, rows.Err()
}

func (s *TransactionStore) batchExists(ctx context.Context, batchID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM transactions WHERE batch_id = ?`, batchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *TransactionStore) checkBatch(ctx context.Context, batchID string) error {
	exists, err := s.batchExists(ctx, batchID)
	if err != nil {
		return fmt.Errorf("check batch: %w", err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return nil
}

func scanTransactions(rows driver.Rows) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for rows.Next() {
		var (
			start, end time.Time
			methodStr  string
			amount     float64
			userID     uint32
			hour       uint8
			duration   float64
		)
		if err := rows.Scan(&start, &end, &methodStr, &amount, &userID, &hour, &duration); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		method, err := domain.ParseMethod(methodStr)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.Transaction{
			StartTime: start,
			EndTime:   end,
			Method:    method,
			Amount:    amount,
			UserID:    int(userID),
			TimeOfDay: int(hour),
			Duration:  duration,
		})
	}
	return out, rows.Err()
}
