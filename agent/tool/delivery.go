package tool

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/dataset"
)

// deliveryTool measures the association between delivery delay and churn:
// group means plus a point-biserial correlation.
type deliveryTool struct{}

func (deliveryTool) Name() string { return ToolDeliveryImpact }

func (deliveryTool) Describe() string {
	return "Compare average delivery days for churned vs retained customers."
}

func (deliveryTool) Run(tables *dataset.Tables) contractx.ToolResult {
	rows, failed := guardRows(ToolDeliveryImpact, tables)
	if failed != nil {
		return *failed
	}
	if !tables.HasOrders() {
		return contractx.ToolResult{
			Tool:  ToolDeliveryImpact,
			Error: fmt.Sprintf("%s: orders", contractx.ErrEmptyTable),
		}
	}

	churnedMean, retainedMean, corr := splitMeans(rows, func(r dataset.Customer360) float64 {
		return r.AvgDeliveryDays
	})
	gap := churnedMean - retainedMean

	return contractx.ToolResult{
		Tool: ToolDeliveryImpact,
		Summary: fmt.Sprintf("Churned customers waited %.1f days on average vs %.1f for retained (gap %.1f days, correlation %.2f).",
			churnedMean, retainedMean, gap, corr),
		Metrics: map[string]float64{
			"churned_avg_delivery_days":  churnedMean,
			"retained_avg_delivery_days": retainedMean,
			"delivery_gap_days":          gap,
			"churn_correlation":          corr,
		},
	}
}

// splitMeans returns the churned and retained means of one numeric column
// plus the point-biserial correlation with the churn label. A degenerate
// column (zero variance, or a single class) yields correlation 0.
func splitMeans(rows []dataset.Customer360, value func(dataset.Customer360) float64) (churned, retained, corr float64) {
	var (
		xs     = make([]float64, 0, len(rows))
		ys     = make([]float64, 0, len(rows))
		cSum   float64
		cCount float64
		rSum   float64
		rCount float64
	)
	for _, row := range rows {
		v := value(row)
		xs = append(xs, v)
		if row.Churned {
			ys = append(ys, 1)
			cSum += v
			cCount++
		} else {
			ys = append(ys, 0)
			rSum += v
			rCount++
		}
	}

	if cCount > 0 {
		churned = cSum / cCount
	}
	if rCount > 0 {
		retained = rSum / rCount
	}

	corr = stat.Correlation(xs, ys, nil)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		corr = 0
	}
	return churned, retained, corr
}
