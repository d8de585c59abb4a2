package reporting

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"mpesa-latency-lab/internal/domain"
)

const (
	chartWidth  = 800
	chartHeight = 400
)

// RenderDurationHistogram renders a PNG histogram of transaction
// durations with the given bin count.
func RenderDurationHistogram(ds domain.Dataset, bins int, w io.Writer) error {
	durations := ds.Durations()
	if len(durations) == 0 || bins <= 0 {
		return fmt.Errorf("%w: nothing to chart", domain.ErrDegenerateData)
	}

	lo, hi := durations[0], durations[0]
	for _, d := range durations {
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}

	counts := make([]int, bins)
	for _, d := range durations {
		idx := int((d - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	bars := make([]chart.Value, bins)
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.0f", lo+width*(float64(i)+0.5)),
			Value: float64(c),
		}
	}

	return renderBarChart("Transaction Duration Distribution (s)", bars, w)
}

// RenderHourlyMeanChart renders the mean duration per hour of day as a
// bar chart, hours 0-23 in order.
func RenderHourlyMeanChart(ds domain.Dataset, w io.Writer) error {
	if ds.Len() == 0 {
		return fmt.Errorf("%w: nothing to chart", domain.ErrDegenerateData)
	}

	hourly := ds.HourlyMeanDurations()
	bars := make([]chart.Value, len(hourly))
	for i, h := range hourly {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%02d", h.Hour),
			Value: h.MeanDuration,
		}
	}

	return renderBarChart("Mean Duration by Hour of Day", bars, w)
}

// RenderMethodMeanChart renders mean duration per payment method.
func RenderMethodMeanChart(ds domain.Dataset, w io.Writer) error {
	if ds.Len() == 0 {
		return fmt.Errorf("%w: nothing to chart", domain.ErrDegenerateData)
	}

	means := ds.MeanDurationByMethod()
	var bars []chart.Value
	for _, m := range domain.Methods() {
		if mean, ok := means[m]; ok {
			bars = append(bars, chart.Value{Label: string(m), Value: mean})
		}
	}

	return renderBarChart("Mean Duration by Payment Method", bars, w)
}

// RenderAmountScatter renders amount vs duration as a dot-only scatter.
func RenderAmountScatter(ds domain.Dataset, w io.Writer) error {
	if ds.Len() == 0 {
		return fmt.Errorf("%w: nothing to chart", domain.ErrDegenerateData)
	}

	xs := make([]float64, ds.Len())
	ys := make([]float64, ds.Len())
	for i, t := range ds.Transactions {
		xs[i] = t.Amount
		ys[i] = t.Duration
	}

	graph := chart.Chart{
		Title:  "Amount vs Duration",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Amount"},
		YAxis:  chart.YAxis{Name: "Duration (s)"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    2,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

func renderBarChart(title string, bars []chart.Value, w io.Writer) error {
	barChart := chart.BarChart{
		Title: title,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  chartWidth,
		Height: chartHeight,
		Bars:   bars,
	}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, ok := v.(float64); ok {
			return fmt.Sprintf("%.1f", vf)
		}
		return ""
	}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}
