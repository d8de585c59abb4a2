package features

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"mpesa-latency-lab/internal/domain"
)

// Split partitions the table into training and holdout sets using a seeded
// random permutation, so membership does not depend on generation order.
// holdoutFraction must lie in (0,1). Row slices are shared with the input
// table, not copied; tables are read-only downstream.
func Split(t *Table, holdoutFraction float64, rng *rand.Rand) (train, holdout *Table, err error) {
	if holdoutFraction <= 0 || holdoutFraction >= 1 {
		return nil, nil, fmt.Errorf("%w: holdout fraction must be in (0,1), got %g",
			domain.ErrConfiguration, holdoutFraction)
	}

	n := t.Len()
	perm := rng.Perm(n)
	nHoldout := int(math.Round(float64(n) * holdoutFraction))

	holdout = &Table{
		Columns: t.Columns,
		Rows:    make([][]float64, 0, nHoldout),
		Target:  make([]float64, 0, nHoldout),
	}
	train = &Table{
		Columns: t.Columns,
		Rows:    make([][]float64, 0, n-nHoldout),
		Target:  make([]float64, 0, n-nHoldout),
	}

	for i, idx := range perm {
		if i < nHoldout {
			holdout.Rows = append(holdout.Rows, t.Rows[idx])
			holdout.Target = append(holdout.Target, t.Target[idx])
		} else {
			train.Rows = append(train.Rows, t.Rows[idx])
			train.Target = append(train.Target, t.Target[idx])
		}
	}

	return train, holdout, nil
}
