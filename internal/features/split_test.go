package features

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	"mpesa-latency-lab/internal/domain"
)

func makeTable(n int) *Table {
	table := &Table{Columns: []string{"amount", "time_of_day"}}
	for i := 0; i < n; i++ {
		table.Rows = append(table.Rows, []float64{float64(i), float64(i % 24)})
		table.Target = append(table.Target, float64(i)) // unique targets identify rows
	}
	return table
}

func TestSplit_SizesAndDisjointness(t *testing.T) {
	table := makeTable(100)
	rng := rand.New(rand.NewSource(42))

	train, holdout, err := Split(table, 0.2, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if holdout.Len() != 20 || train.Len() != 80 {
		t.Fatalf("expected 80/20 split, got %d/%d", train.Len(), holdout.Len())
	}
	if train.Len()+holdout.Len() != table.Len() {
		t.Error("partitions must cover the full table")
	}

	seen := make(map[float64]int)
	for _, v := range train.Target {
		seen[v]++
	}
	for _, v := range holdout.Target {
		seen[v]++
	}
	if len(seen) != 100 {
		t.Errorf("expected 100 distinct rows across partitions, got %d", len(seen))
	}
	for v, count := range seen {
		if count != 1 {
			t.Errorf("row %g appears %d times across partitions", v, count)
		}
	}
}

func TestSplit_NotOrderBased(t *testing.T) {
	table := makeTable(100)
	rng := rand.New(rand.NewSource(42))

	_, holdout, err := Split(table, 0.2, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A prefix/suffix split would put targets 0..19 in the holdout.
	prefix := true
	for i, v := range holdout.Target {
		if v != float64(i) {
			prefix = false
			break
		}
	}
	if prefix {
		t.Error("holdout equals the table prefix, membership must come from a permutation")
	}
}

func TestSplit_Deterministic(t *testing.T) {
	table := makeTable(50)

	_, h1, err := Split(table, 0.3, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, h2, err := Split(table, 0.3, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range h1.Target {
		if h1.Target[i] != h2.Target[i] {
			t.Fatalf("same seed produced different holdout membership at %d", i)
		}
	}
}

func TestSplit_FractionBounds(t *testing.T) {
	table := makeTable(10)
	for _, frac := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := Split(table, frac, rand.New(rand.NewSource(1)))
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("fraction %g: expected ErrConfiguration, got %v", frac, err)
		}
	}
}
