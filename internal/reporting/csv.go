package reporting

import (
	"fmt"
	"strings"
	"time"

	"mpesa-latency-lab/internal/domain"
)

// RenderCSV renders the dataset as a CSV string with exactly the columns
// of domain.Columns, in that order. The schema is a compatibility
// contract with downstream consumers.
func RenderCSV(ds domain.Dataset) string {
	var sb strings.Builder

	sb.WriteString(strings.Join(domain.Columns, ","))
	sb.WriteString("\n")

	for _, t := range ds.Transactions {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.2f,%d,%d,%.6f\n",
			t.StartTime.UTC().Format(time.RFC3339Nano),
			t.EndTime.UTC().Format(time.RFC3339Nano),
			t.Method,
			t.Amount,
			t.UserID,
			t.TimeOfDay,
			t.Duration,
		))
	}

	return sb.String()
}
