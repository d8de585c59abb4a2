package regress

import (
	"fmt"

	"golang.org/x/exp/rand"

	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/features"
)

// Forest averages a fixed number of regression trees, each fit on a
// bootstrap sample of the training data. Averaging captures the
// non-linear effects (the peak-hour step) that the linear model misses.
type Forest struct {
	Columns     []string  // feature layout seen at fit time
	Importances []float64 // per-feature impurity decrease, non-negative, sums to 1
	trees       []*regressionTree
}

// ForestConfig bounds ensemble growth.
type ForestConfig struct {
	Trees       int
	MaxDepth    int
	MinLeafSize int
}

// DefaultForestConfig returns the fixed ensemble parameters used by the
// pipeline.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 50, MaxDepth: 10, MinLeafSize: 5}
}

// FitForest fits the ensemble over the training table. Bootstrap indices
// are drawn from rng, so the ensemble is deterministic for a given seed
// and draw position. Returns domain.ErrDegenerateData for an empty or
// zero-variance training partition.
func FitForest(train *features.Table, cfg ForestConfig, rng *rand.Rand) (*Forest, error) {
	n := train.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: empty training partition", domain.ErrDegenerateData)
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("%w: tree count must be positive, got %d", domain.ErrConfiguration, cfg.Trees)
	}
	if err := checkTargetVariance(train.Target); err != nil {
		return nil, err
	}

	params := treeParams{maxDepth: cfg.MaxDepth, minLeafSize: cfg.MinLeafSize}
	importances := make([]float64, len(train.Columns))
	trees := make([]*regressionTree, cfg.Trees)

	for t := 0; t < cfg.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		trees[t] = fitTree(train.Rows, train.Target, sample, params, importances)
	}

	normalizeImportances(importances)

	return &Forest{
		Columns:     append([]string(nil), train.Columns...),
		Importances: importances,
		trees:       trees,
	}, nil
}

// Predict returns the tree-averaged prediction for every row.
// Returns features.ErrEncodingMismatch if the table layout differs from
// the one seen at fit time.
func (f *Forest) Predict(t *features.Table) ([]float64, error) {
	fitTable := &features.Table{Columns: f.Columns}
	if err := fitTable.CheckCompatible(t); err != nil {
		return nil, err
	}

	out := make([]float64, t.Len())
	for i, row := range t.Rows {
		sum := 0.0
		for _, tree := range f.trees {
			sum += tree.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

// normalizeImportances scales accumulated impurity decreases to sum to 1.
// A forest of stumps that never split leaves the vector at zero.
func normalizeImportances(imp []float64) {
	total := 0.0
	for _, v := range imp {
		total += v
	}
	if total == 0 {
		return
	}
	for i := range imp {
		imp[i] /= total
	}
}
