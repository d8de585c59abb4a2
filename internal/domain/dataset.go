package domain

// Dataset is the immutable table of generated transactions. It is produced
// once by the generator and read by every downstream stage; no stage
// mutates it.
type Dataset struct {
	Transactions []*Transaction
}

// Columns is the canonical column order of the exported table. Downstream
// sinks depend on this exact order and naming.
var Columns = []string{
	"start_time",
	"end_time",
	"payment_method",
	"amount",
	"user_id",
	"time_of_day",
	"duration",
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Transactions)
}

// Durations returns the duration column as a fresh slice.
func (d Dataset) Durations() []float64 {
	out := make([]float64, len(d.Transactions))
	for i, t := range d.Transactions {
		out[i] = t.Duration
	}
	return out
}

// DurationsByMethod partitions durations into groups keyed by payment
// method. The significance tester consumes this grouping directly.
func (d Dataset) DurationsByMethod() map[PaymentMethod][]float64 {
	groups := make(map[PaymentMethod][]float64, len(Methods()))
	for _, t := range d.Transactions {
		groups[t.Method] = append(groups[t.Method], t.Duration)
	}
	return groups
}

// MeanDurationByMethod returns the mean duration per payment method.
// Methods with no records are absent from the result.
func (d Dataset) MeanDurationByMethod() map[PaymentMethod]float64 {
	sums := make(map[PaymentMethod]float64)
	counts := make(map[PaymentMethod]int)
	for _, t := range d.Transactions {
		sums[t.Method] += t.Duration
		counts[t.Method]++
	}
	means := make(map[PaymentMethod]float64, len(sums))
	for m, s := range sums {
		means[m] = s / float64(counts[m])
	}
	return means
}

// HourlyMean is the mean transaction duration for one hour of the day.
type HourlyMean struct {
	Hour         int     // 0-23
	MeanDuration float64 // seconds, 0 when Count is 0
	Count        int     // number of transactions in this hour
}

// HourlyMeanDurations aggregates mean duration by time_of_day, ordered by
// hour 0-23. All 24 hours are always present so the bar-chart collaborator
// gets a fixed-width series.
func (d Dataset) HourlyMeanDurations() []HourlyMean {
	var sums [24]float64
	var counts [24]int
	for _, t := range d.Transactions {
		sums[t.TimeOfDay] += t.Duration
		counts[t.TimeOfDay]++
	}
	out := make([]HourlyMean, 24)
	for h := 0; h < 24; h++ {
		out[h] = HourlyMean{Hour: h, Count: counts[h]}
		if counts[h] > 0 {
			out[h].MeanDuration = sums[h] / float64(counts[h])
		}
	}
	return out
}
