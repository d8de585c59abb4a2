// Package verification checks the reproducibility contract: two full runs
// under the same seed must produce identical datasets and identical
// metrics to floating-point tolerance.
package verification

import (
	"fmt"
	"math"

	"mpesa-latency-lab/internal/analysis"
	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/simulate"
)

// FloatTolerance is the allowed drift between metric values of two runs.
// Dataset fields are compared exactly; only derived metrics get tolerance.
const FloatTolerance = 1e-9

// FieldDivergence records one mismatch between two runs.
type FieldDivergence struct {
	Field    string
	Expected interface{}
	Actual   interface{}
}

// Result summarizes one verification pass.
type Result struct {
	DatasetMatch bool
	MetricsMatch bool
	Divergences  []FieldDivergence
}

// Match reports whether the two runs agreed completely.
func (r *Result) Match() bool {
	return r.DatasetMatch && r.MetricsMatch
}

// Verify runs generation and analysis twice under cfg and compares the
// results. Any divergence means a stage consumed unseeded randomness or
// drew from the shared source out of order.
func Verify(cfg domain.GeneratorConfig, opts analysis.Options) (*Result, error) {
	first, firstReport, err := runOnce(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("first run: %w", err)
	}
	second, secondReport, err := runOnce(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("second run: %w", err)
	}

	result := &Result{}
	datasetDivs := CompareDatasets(first, second)
	metricDivs := CompareReports(firstReport, secondReport)
	result.DatasetMatch = len(datasetDivs) == 0
	result.MetricsMatch = len(metricDivs) == 0
	result.Divergences = append(datasetDivs, metricDivs...)
	return result, nil
}

func runOnce(cfg domain.GeneratorConfig, opts analysis.Options) (domain.Dataset, *analysis.MetricsReport, error) {
	gen, err := simulate.NewGenerator(cfg)
	if err != nil {
		return domain.Dataset{}, nil, err
	}
	rng := simulate.NewRand(cfg.Seed)
	ds := gen.Generate(rng)
	report, err := analysis.Run(ds, opts, rng)
	if err != nil {
		return domain.Dataset{}, nil, err
	}
	return ds, report, nil
}

// CompareDatasets compares two datasets record by record, exactly.
// Reporting stops after the first divergent record; one broken draw skews
// every subsequent one.
func CompareDatasets(a, b domain.Dataset) []FieldDivergence {
	if a.Len() != b.Len() {
		return []FieldDivergence{{Field: "len", Expected: a.Len(), Actual: b.Len()}}
	}

	for i := range a.Transactions {
		x, y := a.Transactions[i], b.Transactions[i]
		prefix := fmt.Sprintf("transaction[%d].", i)
		var divs []FieldDivergence
		if !x.StartTime.Equal(y.StartTime) {
			divs = append(divs, FieldDivergence{Field: prefix + "start_time", Expected: x.StartTime, Actual: y.StartTime})
		}
		if !x.EndTime.Equal(y.EndTime) {
			divs = append(divs, FieldDivergence{Field: prefix + "end_time", Expected: x.EndTime, Actual: y.EndTime})
		}
		if x.Method != y.Method {
			divs = append(divs, FieldDivergence{Field: prefix + "payment_method", Expected: x.Method, Actual: y.Method})
		}
		if x.Amount != y.Amount {
			divs = append(divs, FieldDivergence{Field: prefix + "amount", Expected: x.Amount, Actual: y.Amount})
		}
		if x.UserID != y.UserID {
			divs = append(divs, FieldDivergence{Field: prefix + "user_id", Expected: x.UserID, Actual: y.UserID})
		}
		if x.TimeOfDay != y.TimeOfDay {
			divs = append(divs, FieldDivergence{Field: prefix + "time_of_day", Expected: x.TimeOfDay, Actual: y.TimeOfDay})
		}
		if x.Duration != y.Duration {
			divs = append(divs, FieldDivergence{Field: prefix + "duration", Expected: x.Duration, Actual: y.Duration})
		}
		if len(divs) > 0 {
			return divs
		}
	}
	return nil
}

// CompareReports compares the derived metrics of two runs within
// FloatTolerance. RunID is metadata, not a metric, and is ignored.
func CompareReports(a, b *analysis.MetricsReport) []FieldDivergence {
	var divs []FieldDivergence

	compareFloat := func(field string, x, y float64) {
		if math.Abs(x-y) > FloatTolerance {
			divs = append(divs, FieldDivergence{Field: field, Expected: x, Actual: y})
		}
	}

	if a.TrainSize != b.TrainSize {
		divs = append(divs, FieldDivergence{Field: "train_size", Expected: a.TrainSize, Actual: b.TrainSize})
	}
	if a.HoldoutSize != b.HoldoutSize {
		divs = append(divs, FieldDivergence{Field: "holdout_size", Expected: a.HoldoutSize, Actual: b.HoldoutSize})
	}

	compareFloat("linear.mse", a.Linear.MSE, b.Linear.MSE)
	compareFloat("linear.r2", a.Linear.R2, b.Linear.R2)
	compareFloat("forest.mse", a.Forest.MSE, b.Forest.MSE)
	compareFloat("forest.r2", a.Forest.R2, b.Forest.R2)
	compareFloat("intercept", a.Intercept, b.Intercept)
	compareFloat("anova.f", a.ANOVA.FStatistic, b.ANOVA.FStatistic)
	compareFloat("anova.p", a.ANOVA.PValue, b.ANOVA.PValue)

	for i := range a.Coefficients {
		if i < len(b.Coefficients) {
			compareFloat("coefficient."+a.Coefficients[i].Feature, a.Coefficients[i].Value, b.Coefficients[i].Value)
		}
	}
	for i := range a.Importances {
		if i < len(b.Importances) {
			compareFloat("importance."+a.Importances[i].Feature, a.Importances[i].Value, b.Importances[i].Value)
		}
	}

	return divs
}
