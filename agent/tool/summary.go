package tool

import (
	"fmt"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/dataset"
)

// summaryTool is the default tool: headline counts and rates over the
// joined view.
type summaryTool struct{}

func (summaryTool) Name() string { return ToolDataSummary }

func (summaryTool) Describe() string {
	return "High-level summary of the customer base: count, churn rate, total revenue."
}

func (summaryTool) Run(tables *dataset.Tables) contractx.ToolResult {
	rows, failed := guardRows(ToolDataSummary, tables)
	if failed != nil {
		return *failed
	}

	var churned, revenue, orders, discounted float64
	for _, r := range rows {
		if r.Churned {
			churned++
		}
		revenue += r.TotalRevenue
		orders += float64(r.TotalOrders)
		discounted += float64(r.DiscountCount)
	}
	churnRate := churned / float64(len(rows)) * 100
	var discountShare float64
	if orders > 0 {
		discountShare = discounted / orders * 100
	}

	return contractx.ToolResult{
		Tool: ToolDataSummary,
		Summary: fmt.Sprintf("%d customers, %.2f%% churn rate, total revenue INR %.0f, %.2f%% of orders discounted.",
			len(rows), churnRate, revenue, discountShare),
		Metrics: map[string]float64{
			"customers":          float64(len(rows)),
			"churn_rate_pct":     churnRate,
			"total_revenue":      revenue,
			"discount_share_pct": discountShare,
		},
	}
}
