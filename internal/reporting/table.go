package reporting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"mpesa-latency-lab/internal/analysis"
)

// WriteSummaryTables renders the metrics report as console tables.
func WriteSummaryTables(w io.Writer, r *analysis.MetricsReport) {
	fmt.Fprintf(w, "Run %s: %d records (%d train / %d holdout)\n\n",
		r.RunID, r.N, r.TrainSize, r.HoldoutSize)

	perf := tablewriter.NewWriter(w)
	perf.SetHeader([]string{"Model", "MSE", "R²"})
	perf.Append([]string{"Linear (OLS)", fmt.Sprintf("%.4f", r.Linear.MSE), fmt.Sprintf("%.4f", r.Linear.R2)})
	perf.Append([]string{"Tree Ensemble", fmt.Sprintf("%.4f", r.Forest.MSE), fmt.Sprintf("%.4f", r.Forest.R2)})
	perf.Render()
	fmt.Fprintln(w)

	coeffs := tablewriter.NewWriter(w)
	coeffs.SetHeader([]string{"Feature", "Coefficient", "Importance"})
	coeffs.Append([]string{"intercept", fmt.Sprintf("%.4f", r.Intercept), "-"})
	for i, c := range r.Coefficients {
		coeffs.Append([]string{
			c.Feature,
			fmt.Sprintf("%.4f", c.Value),
			fmt.Sprintf("%.4f", r.Importances[i].Value),
		})
	}
	coeffs.Render()
	fmt.Fprintln(w)

	groups := tablewriter.NewWriter(w)
	groups.SetHeader([]string{"Method", "Count", "Mean Duration (s)"})
	for _, g := range r.Groups {
		groups.Append([]string{
			string(g.Method),
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.4f", g.MeanDuration),
		})
	}
	groups.Render()

	fmt.Fprintf(w, "\nANOVA: F(%d, %d) = %.4f, p = %.3g\n",
		r.ANOVA.DFBetween, r.ANOVA.DFWithin, r.ANOVA.FStatistic, r.ANOVA.PValue)
}
