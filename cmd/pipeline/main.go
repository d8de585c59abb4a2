// Package main runs the full lab pipeline:
// generation → encoding → split → regression → ANOVA → report.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"mpesa-latency-lab/internal/analysis"
	"mpesa-latency-lab/internal/domain"
	"mpesa-latency-lab/internal/reporting"
	"mpesa-latency-lab/internal/simulate"
)

func main() {
	n := flag.Int("n", 10000, "Number of transactions to generate")
	seed := flag.Uint64("seed", 42, "Seed for the shared random source")
	holdout := flag.Float64("holdout", 0.2, "Holdout fraction in (0,1)")
	outputDir := flag.String("output-dir", "out", "Output directory for generated files")
	charts := flag.Bool("charts", true, "Render PNG charts")
	flag.Parse()

	cfg := domain.DefaultConfig()
	cfg.N = *n
	cfg.Seed = *seed

	gen, err := simulate.NewGenerator(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rng := simulate.NewRand(cfg.Seed)
	ds := gen.Generate(rng)
	fmt.Printf("Generated %d transactions (seed %d)\n", ds.Len(), cfg.Seed)

	opts := analysis.DefaultOptions()
	opts.HoldoutFraction = *holdout
	report, err := analysis.Run(ds, opts, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*outputDir, "dataset.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(ds)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Dataset written to %s\n", csvPath)

	mdPath := filepath.Join(*outputDir, "report.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report written to %s\n", mdPath)

	if *charts {
		renderCharts(ds, *outputDir)
	}

	fmt.Println()
	reporting.WriteSummaryTables(os.Stdout, report)
}

func renderCharts(ds domain.Dataset, outputDir string) {
	chartFiles := []struct {
		name   string
		render func(*os.File) error
	}{
		{"duration_histogram.png", func(f *os.File) error { return reporting.RenderDurationHistogram(ds, 30, f) }},
		{"hourly_mean.png", func(f *os.File) error { return reporting.RenderHourlyMeanChart(ds, f) }},
		{"method_mean.png", func(f *os.File) error { return reporting.RenderMethodMeanChart(ds, f) }},
		{"amount_scatter.png", func(f *os.File) error { return reporting.RenderAmountScatter(ds, f) }},
	}

	for _, cf := range chartFiles {
		path := filepath.Join(outputDir, cf.name)
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create %s: %v\n", path, err)
			continue
		}
		err = cf.render(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to render %s: %v\n", path, err)
			continue
		}
		fmt.Printf("Chart written to %s\n", path)
	}
}
