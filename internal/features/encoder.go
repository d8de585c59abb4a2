// Package features converts the generated dataset into the numeric design
// matrix consumed by the regressors, and partitions it into training and
// holdout sets.
package features

import (
	"errors"
	"fmt"
	"sort"

	"mpesa-latency-lab/internal/domain"
)

// ErrEncodingMismatch is returned when the feature layout seen at
// evaluation time differs from the one seen at fit time.
var ErrEncodingMismatch = errors.New("encoding mismatch")

// Table is an encoded feature table with a parallel target vector.
// Rows[i] is aligned with Target[i]; column order matches Columns.
type Table struct {
	Columns []string
	Rows    [][]float64
	Target  []float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// CheckCompatible verifies that other has the same column layout as t.
// A missing, extra or reordered column is reported, never masked.
func (t *Table) CheckCompatible(other *Table) error {
	if len(t.Columns) != len(other.Columns) {
		return fmt.Errorf("%w: %d columns vs %d", ErrEncodingMismatch, len(t.Columns), len(other.Columns))
	}
	for i, name := range t.Columns {
		if other.Columns[i] != name {
			return fmt.Errorf("%w: column %d is %q vs %q", ErrEncodingMismatch, i, name, other.Columns[i])
		}
	}
	return nil
}

// Encode builds the design matrix from the dataset: amount and time_of_day
// as numeric columns, followed by one indicator column per non-reference
// payment method in alphabetical order. The reference method
// (domain.ReferenceMethod) is folded into the regression intercept.
// Duration is the target.
func Encode(ds domain.Dataset) *Table {
	indicators := indicatorMethods()

	columns := []string{"amount", "time_of_day"}
	for _, m := range indicators {
		columns = append(columns, "indicator_"+string(m))
	}

	rows := make([][]float64, ds.Len())
	target := make([]float64, ds.Len())
	for i, txn := range ds.Transactions {
		row := make([]float64, len(columns))
		row[0] = txn.Amount
		row[1] = float64(txn.TimeOfDay)
		for j, m := range indicators {
			if txn.Method == m {
				row[2+j] = 1
			}
		}
		rows[i] = row
		target[i] = txn.Duration
	}

	return &Table{Columns: columns, Rows: rows, Target: target}
}

// indicatorMethods returns the non-reference methods in alphabetical order,
// which fixes the indicator column order across runs.
func indicatorMethods() []domain.PaymentMethod {
	var out []domain.PaymentMethod
	for _, m := range domain.Methods() {
		if m != domain.ReferenceMethod {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
