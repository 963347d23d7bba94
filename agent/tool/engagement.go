package tool

import (
	"fmt"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/dataset"
)

// engagementTool compares visit behavior between churned and retained
// customers.
type engagementTool struct{}

func (engagementTool) Name() string { return ToolEngagementImpact }

func (engagementTool) Describe() string {
	return "Compare monthly visits for churned vs retained customers."
}

func (engagementTool) Run(tables *dataset.Tables) contractx.ToolResult {
	rows, failed := guardRows(ToolEngagementImpact, tables)
	if failed != nil {
		return *failed
	}
	if !tables.HasEngagement() {
		return contractx.ToolResult{
			Tool:  ToolEngagementImpact,
			Error: fmt.Sprintf("%s: engagement", contractx.ErrEmptyTable),
		}
	}

	churnedMean, retainedMean, corr := splitMeans(rows, func(r dataset.Customer360) float64 {
		return r.MonthlyVisits
	})
	gap := retainedMean - churnedMean

	return contractx.ToolResult{
		Tool: ToolEngagementImpact,
		Summary: fmt.Sprintf("Churned customers averaged %.1f monthly visits vs %.1f for retained (gap %.1f, correlation %.2f).",
			churnedMean, retainedMean, gap, corr),
		Metrics: map[string]float64{
			"churned_avg_monthly_visits":  churnedMean,
			"retained_avg_monthly_visits": retainedMean,
			"engagement_gap_visits":       gap,
			"churn_correlation":           corr,
		},
	}
}
