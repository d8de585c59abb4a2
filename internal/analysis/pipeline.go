// Package analysis orchestrates the full run: encode the dataset, split it,
// fit and evaluate both regressors, run the significance test, and fold
// everything into one MetricsReport.
package analysis

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"mpesa-latency-lab/internal/anova"
	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/features"
	"mpesa-latency-lab/internal/regress"
)

// Options configures one analysis run.
type Options struct {
	HoldoutFraction float64
	Forest          regress.ForestConfig
}

// DefaultOptions returns the canonical pipeline parameters: 20% holdout,
// default forest.
func DefaultOptions() Options {
	return Options{
		HoldoutFraction: 0.2,
		Forest:          regress.DefaultForestConfig(),
	}
}

// FeatureValue pairs one feature name with a fitted value (a coefficient
// or an importance score).
type FeatureValue struct {
	Feature string
	Value   float64
}

// GroupStat summarizes one payment-method group for the report.
type GroupStat struct {
	Method       domain.PaymentMethod
	Count        int
	MeanDuration float64
}

// MetricsReport aggregates every metric of a run. It is the sole handoff
// to the presentation collaborators and is read-only once produced.
type MetricsReport struct {
	RunID       string
	N           int
	TrainSize   int
	HoldoutSize int

	Linear       regress.Metrics
	Forest       regress.Metrics
	Intercept    float64
	Coefficients []FeatureValue // linear model, encoder column order
	Importances  []FeatureValue // ensemble, encoder column order

	ANOVA  anova.Result
	Groups []GroupStat // canonical method order

	HourlyMeans []domain.HourlyMean // hour-keyed aggregate for charting
}

// Run executes the analysis over an already generated dataset. rng must be
// the shared seeded source, already past the generation draws: the split
// permutation is consumed first, then the ensemble bootstrap. Reordering
// those draws changes results even under the same seed.
func Run(ds domain.Dataset, opts Options, rng *rand.Rand) (*MetricsReport, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: empty dataset", domain.ErrDegenerateData)
	}

	table := features.Encode(ds)
	train, holdout, err := features.Split(table, opts.HoldoutFraction, rng)
	if err != nil {
		return nil, err
	}

	linear, err := regress.FitLinear(train)
	if err != nil {
		return nil, fmt.Errorf("fit linear model: %w", err)
	}
	linearMetrics, err := regress.Evaluate(linear, holdout)
	if err != nil {
		return nil, fmt.Errorf("evaluate linear model: %w", err)
	}

	forest, err := regress.FitForest(train, opts.Forest, rng)
	if err != nil {
		return nil, fmt.Errorf("fit ensemble: %w", err)
	}
	forestMetrics, err := regress.Evaluate(forest, holdout)
	if err != nil {
		return nil, fmt.Errorf("evaluate ensemble: %w", err)
	}

	// The significance test deliberately runs over the full dataset, not
	// the holdout: it asks a population question, not a prediction one.
	anovaResult, err := anova.OneWay(ds.DurationsByMethod())
	if err != nil {
		return nil, fmt.Errorf("significance test: %w", err)
	}

	report := &MetricsReport{
		RunID:        uuid.NewString(),
		N:            ds.Len(),
		TrainSize:    train.Len(),
		HoldoutSize:  holdout.Len(),
		Linear:       linearMetrics,
		Forest:       forestMetrics,
		Intercept:    linear.Intercept,
		Coefficients: pairValues(table.Columns, linear.Coefficients),
		Importances:  pairValues(table.Columns, forest.Importances),
		ANOVA:        anovaResult,
		HourlyMeans:  ds.HourlyMeanDurations(),
	}

	counts := make(map[domain.PaymentMethod]int)
	for _, t := range ds.Transactions {
		counts[t.Method]++
	}
	means := ds.MeanDurationByMethod()
	for _, m := range domain.Methods() {
		report.Groups = append(report.Groups, GroupStat{
			Method:       m,
			Count:        counts[m],
			MeanDuration: means[m],
		})
	}

	return report, nil
}

func pairValues(columns []string, values []float64) []FeatureValue {
	out := make([]FeatureValue, len(columns))
	for i, c := range columns {
		out[i] = FeatureValue{Feature: c, Value: values[i]}
	}
	return out
}
