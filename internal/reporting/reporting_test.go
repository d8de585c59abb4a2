package reporting

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"mpesa-latency-lab/internal/analysis"
	"mpesa-latency-lab/internal/anova"
	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/regress"
	"mpesa-latency-lab/internal/simulate"
)

func sampleDataset(t *testing.T, n int) domain.Dataset {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.N = n
	cfg.Seed = 42
	gen, err := simulate.NewGenerator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return gen.Generate(simulate.NewRand(cfg.Seed))
}

func sampleReport() *analysis.MetricsReport {
	return &analysis.MetricsReport{
		RunID:       "test-run",
		N:           100,
		TrainSize:   80,
		HoldoutSize: 20,
		Linear:      regress.Metrics{MSE: 9.5, R2: 0.73},
		Forest:      regress.Metrics{MSE: 8.9, R2: 0.78},
		Intercept:   11.2,
		Coefficients: []analysis.FeatureValue{
			{Feature: "amount", Value: 0.002},
			{Feature: "time_of_day", Value: 0.21},
			{Feature: "indicator_Paybill", Value: 10.1},
			{Feature: "indicator_PochiLaBiashara", Value: 19.8},
			{Feature: "indicator_TillNumber", Value: 5.2},
		},
		Importances: []analysis.FeatureValue{
			{Feature: "amount", Value: 0.35},
			{Feature: "time_of_day", Value: 0.1},
			{Feature: "indicator_Paybill", Value: 0.15},
			{Feature: "indicator_PochiLaBiashara", Value: 0.3},
			{Feature: "indicator_TillNumber", Value: 0.1},
		},
		ANOVA: anova.Result{FStatistic: 1500.2, PValue: 1e-200, DFBetween: 3, DFWithin: 96},
		Groups: []analysis.GroupStat{
			{Method: domain.MethodDirectSend, Count: 40, MeanDuration: 12.1},
			{Method: domain.MethodTillNumber, Count: 30, MeanDuration: 17.3},
			{Method: domain.MethodPaybill, Count: 20, MeanDuration: 22.4},
			{Method: domain.MethodPochiLaBiashara, Count: 10, MeanDuration: 32.0},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown(sampleReport())

	for _, want := range []string{
		"# Transaction Latency Analysis",
		"Run: test-run",
		"Records: 100 | Train: 80 | Holdout: 20",
		"| Linear (OLS) | 9.5000 | 0.7300 |",
		"| Tree Ensemble | 8.9000 | 0.7800 |",
		"| intercept | 11.2000 |",
		"| indicator_PochiLaBiashara | 19.8000 |",
		"F(3, 96) = 1500.2000",
		"Mean duration differs significantly across payment methods.",
		"| PochiLaBiashara | 10 | 32.0000 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_InsignificantResult(t *testing.T) {
	r := sampleReport()
	r.ANOVA.PValue = 0.4
	out := RenderMarkdown(r)
	if !strings.Contains(out, "No significant difference") {
		t.Error("expected insignificance note for p = 0.4")
	}
}

func TestRenderCSV(t *testing.T) {
	start := time.Date(2023, 1, 5, 14, 30, 0, 0, time.UTC)
	ds := domain.Dataset{Transactions: []*domain.Transaction{
		{
			StartTime: start,
			EndTime:   start.Add(domain.DurationDelta(17.5)),
			Method:    domain.MethodTillNumber,
			Amount:    850.5,
			UserID:    4321,
			TimeOfDay: 14,
			Duration:  17.5,
		},
	}}

	out := RenderCSV(ds)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != strings.Join(domain.Columns, ",") {
		t.Errorf("header = %q, want column contract order", lines[0])
	}

	fields := strings.Split(lines[1], ",")
	if len(fields) != len(domain.Columns) {
		t.Fatalf("got %d fields, want %d", len(fields), len(domain.Columns))
	}
	if fields[0] != "2023-01-05T14:30:00Z" {
		t.Errorf("start_time = %q", fields[0])
	}
	if fields[2] != "TillNumber" {
		t.Errorf("payment_method = %q", fields[2])
	}
	if fields[3] != "850.50" {
		t.Errorf("amount = %q", fields[3])
	}
	if fields[4] != "4321" {
		t.Errorf("user_id = %q", fields[4])
	}
	if fields[5] != "14" {
		t.Errorf("time_of_day = %q", fields[5])
	}
	if fields[6] != "17.500000" {
		t.Errorf("duration = %q", fields[6])
	}
}

func TestRenderCSV_EmptyDataset(t *testing.T) {
	out := RenderCSV(domain.Dataset{})
	if out != strings.Join(domain.Columns, ",")+"\n" {
		t.Errorf("empty dataset should render header only, got %q", out)
	}
}

func TestWriteSummaryTables(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTables(&buf, sampleReport())

	out := buf.String()
	for _, want := range []string{
		"Run test-run: 100 records (80 train / 20 holdout)",
		"Linear (OLS)",
		"Tree Ensemble",
		"indicator_TillNumber",
		"PochiLaBiashara",
		"ANOVA: F(3, 96) = 1500.2000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary tables missing %q", want)
		}
	}
}

// pngHeader is the fixed 8-byte PNG file signature.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func assertPNG(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	if buf.Len() < len(pngHeader) {
		t.Fatalf("rendered only %d bytes", buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), pngHeader) {
		t.Error("output does not start with the PNG signature")
	}
}

func TestRenderCharts(t *testing.T) {
	ds := sampleDataset(t, 500)

	var hist bytes.Buffer
	if err := RenderDurationHistogram(ds, 20, &hist); err != nil {
		t.Fatalf("histogram: %v", err)
	}
	assertPNG(t, &hist)

	var hourly bytes.Buffer
	if err := RenderHourlyMeanChart(ds, &hourly); err != nil {
		t.Fatalf("hourly chart: %v", err)
	}
	assertPNG(t, &hourly)

	var methods bytes.Buffer
	if err := RenderMethodMeanChart(ds, &methods); err != nil {
		t.Fatalf("method chart: %v", err)
	}
	assertPNG(t, &methods)

	var scatter bytes.Buffer
	if err := RenderAmountScatter(ds, &scatter); err != nil {
		t.Fatalf("scatter: %v", err)
	}
	assertPNG(t, &scatter)
}

func TestRenderCharts_EmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	empty := domain.Dataset{}

	if err := RenderDurationHistogram(empty, 20, &buf); !errors.Is(err, domain.ErrDegenerateData) {
		t.Errorf("histogram: expected ErrDegenerateData, got %v", err)
	}
	if err := RenderHourlyMeanChart(empty, &buf); !errors.Is(err, domain.ErrDegenerateData) {
		t.Errorf("hourly chart: expected ErrDegenerateData, got %v", err)
	}
	if err := RenderMethodMeanChart(empty, &buf); !errors.Is(err, domain.ErrDegenerateData) {
		t.Errorf("method chart: expected ErrDegenerateData, got %v", err)
	}
	if err := RenderAmountScatter(empty, &buf); !errors.Is(err, domain.ErrDegenerateData) {
		t.Errorf("scatter: expected ErrDegenerateData, got %v", err)
	}
}

func TestRenderDurationHistogram_BadBins(t *testing.T) {
	ds := sampleDataset(t, 50)
	var buf bytes.Buffer
	if err := RenderDurationHistogram(ds, 0, &buf); !errors.Is(err, domain.ErrDegenerateData) {
		t.Errorf("zero bins: expected ErrDegenerateData, got %v", err)
	}
}
