package verification

import (
	"testing"
	"time"

	"mpesa-latency-lab/internal/analysis"
	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/regress"
	"mpesa-latency-lab/internal/simulate"
)

func smallConfig() domain.GeneratorConfig {
	cfg := domain.DefaultConfig()
	cfg.N = 500
	cfg.Seed = 42
	return cfg
}

func smallOptions() analysis.Options {
	return analysis.Options{
		HoldoutFraction: 0.2,
		Forest:          regress.ForestConfig{Trees: 10, MaxDepth: 6, MinLeafSize: 5},
	}
}

func TestVerify_Reproducible(t *testing.T) {
	result, err := Verify(smallConfig(), smallOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.DatasetMatch {
		t.Error("datasets diverged under the same seed")
	}
	if !result.MetricsMatch {
		t.Error("metrics diverged under the same seed")
	}
	if !result.Match() {
		t.Errorf("expected full match, got divergences: %v", result.Divergences)
	}
}

func TestVerify_BadConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.N = -1
	if _, err := Verify(cfg, smallOptions()); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestCompareDatasets_DetectsDivergence(t *testing.T) {
	cfg := smallConfig()
	cfg.N = 20
	gen, err := simulate.NewGenerator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := gen.Generate(simulate.NewRand(cfg.Seed))
	b := gen.Generate(simulate.NewRand(cfg.Seed))

	if divs := CompareDatasets(a, b); len(divs) != 0 {
		t.Fatalf("identical runs reported divergent: %v", divs)
	}

	b.Transactions[7].Amount += 1
	divs := CompareDatasets(a, b)
	if len(divs) == 0 {
		t.Fatal("amount change not detected")
	}
	if divs[0].Field != "transaction[7].amount" {
		t.Errorf("divergence field = %q, want transaction[7].amount", divs[0].Field)
	}

	// Length mismatch short-circuits field comparison.
	c := domain.Dataset{Transactions: a.Transactions[:10]}
	divs = CompareDatasets(a, c)
	if len(divs) != 1 || divs[0].Field != "len" {
		t.Errorf("expected single len divergence, got %v", divs)
	}
}

func TestCompareDatasets_StopsAtFirstDivergentRecord(t *testing.T) {
	cfg := smallConfig()
	cfg.N = 20
	gen, err := simulate.NewGenerator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := gen.Generate(simulate.NewRand(cfg.Seed))
	b := gen.Generate(simulate.NewRand(cfg.Seed))

	b.Transactions[3].Duration += 0.5
	b.Transactions[3].EndTime = b.Transactions[3].EndTime.Add(500 * time.Millisecond)
	b.Transactions[15].UserID++

	divs := CompareDatasets(a, b)
	for _, d := range divs {
		if d.Field == "transaction[15].user_id" {
			t.Error("comparison did not stop at the first divergent record")
		}
	}
}

func TestCompareReports(t *testing.T) {
	base := func() *analysis.MetricsReport {
		return &analysis.MetricsReport{
			RunID:       "a",
			TrainSize:   80,
			HoldoutSize: 20,
			Linear:      regress.Metrics{MSE: 9.5, R2: 0.73},
			Forest:      regress.Metrics{MSE: 8.9, R2: 0.78},
			Intercept:   11.2,
			Coefficients: []analysis.FeatureValue{
				{Feature: "amount", Value: 0.002},
			},
			Importances: []analysis.FeatureValue{
				{Feature: "amount", Value: 1.0},
			},
		}
	}

	a, b := base(), base()
	b.RunID = "b"
	if divs := CompareReports(a, b); len(divs) != 0 {
		t.Errorf("RunID must be ignored, got divergences: %v", divs)
	}

	// Drift below tolerance passes.
	b = base()
	b.Linear.MSE += FloatTolerance / 2
	if divs := CompareReports(a, b); len(divs) != 0 {
		t.Errorf("sub-tolerance drift flagged: %v", divs)
	}

	// Drift above tolerance is flagged with the field name.
	b = base()
	b.Coefficients[0].Value += 1e-6
	divs := CompareReports(a, b)
	if len(divs) != 1 || divs[0].Field != "coefficient.amount" {
		t.Errorf("expected coefficient.amount divergence, got %v", divs)
	}

	b = base()
	b.HoldoutSize = 21
	divs = CompareReports(a, b)
	if len(divs) != 1 || divs[0].Field != "holdout_size" {
		t.Errorf("expected holdout_size divergence, got %v", divs)
	}
}
