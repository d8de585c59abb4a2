// Package reporting renders the outputs of a run for the presentation
// collaborators: a Markdown report, the CSV dataset export, console
// tables and PNG charts. No analytic logic lives here.
package reporting

import (
	"fmt"
	"strings"

	"mpesa-latency-lab/internal/analysis"
)

// RenderMarkdown renders the metrics report as a Markdown string.
func RenderMarkdown(r *analysis.MetricsReport) string {
	var sb strings.Builder

	sb.WriteString("# Transaction Latency Analysis\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Records: %d | Train: %d | Holdout: %d\n\n", r.N, r.TrainSize, r.HoldoutSize))

	sb.WriteString("## Model Performance (holdout)\n\n")
	sb.WriteString("| Model | MSE | R² |\n")
	sb.WriteString("|-------|-----|----|\n")
	sb.WriteString(fmt.Sprintf("| Linear (OLS) | %.4f | %.4f |\n", r.Linear.MSE, r.Linear.R2))
	sb.WriteString(fmt.Sprintf("| Tree Ensemble | %.4f | %.4f |\n", r.Forest.MSE, r.Forest.R2))
	sb.WriteString("\n")

	sb.WriteString("## Linear Coefficients\n\n")
	sb.WriteString("Indicator coefficients are additive duration offsets versus DirectSend.\n\n")
	sb.WriteString("| Feature | Coefficient |\n")
	sb.WriteString("|---------|-------------|\n")
	sb.WriteString(fmt.Sprintf("| intercept | %.4f |\n", r.Intercept))
	for _, c := range r.Coefficients {
		sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", c.Feature, c.Value))
	}
	sb.WriteString("\n")

	sb.WriteString("## Ensemble Feature Importances\n\n")
	sb.WriteString("| Feature | Importance |\n")
	sb.WriteString("|---------|------------|\n")
	for _, imp := range r.Importances {
		sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", imp.Feature, imp.Value))
	}
	sb.WriteString("\n")

	sb.WriteString("## One-Way ANOVA (duration ~ payment method)\n\n")
	sb.WriteString(fmt.Sprintf("F(%d, %d) = %.4f, p = %.3g\n\n",
		r.ANOVA.DFBetween, r.ANOVA.DFWithin, r.ANOVA.FStatistic, r.ANOVA.PValue))
	if r.ANOVA.PValue < 0.05 {
		sb.WriteString("Mean duration differs significantly across payment methods.\n\n")
	} else {
		sb.WriteString("No significant difference in mean duration across payment methods.\n\n")
	}

	sb.WriteString("## Duration by Payment Method\n\n")
	sb.WriteString("| Method | Count | Mean Duration (s) |\n")
	sb.WriteString("|--------|-------|-------------------|\n")
	for _, g := range r.Groups {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.4f |\n", g.Method, g.Count, g.MeanDuration))
	}
	sb.WriteString("\n")

	return sb.String()
}
