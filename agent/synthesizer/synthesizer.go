// Package synthesizer turns retrieved context plus a tool result into the
// final narrative answer. Pure templating, no generative model: identical
// inputs always produce the identical string.
package synthesizer

import (
	"fmt"
	"sort"
	"strings"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/tool"
)

const (
	churnRateAlertPct     = 20.0
	deliveryGapAlert      = 1.0
	engagementGapAlert    = 1.0
	segmentAlertPct       = 30.0
	discountShareAlertPct = 40.0
)

type Synthesizer struct{}

var _ contractx.Synthesizer = Synthesizer{}

func New() Synthesizer {
	return Synthesizer{}
}

func (Synthesizer) Compose(req contractx.ComposeRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", strings.TrimSpace(req.Query))
	b.WriteString("\nBusiness context:\n")
	if strings.TrimSpace(req.Context) == "" {
		b.WriteString("No relevant context found in the business brief.\n")
	} else {
		b.WriteString(req.Context)
		b.WriteString("\n")
	}

	if req.Route.Fallback {
		b.WriteString("\nNo specific analysis matched this question; showing the overall data summary instead.\n")
	} else {
		fmt.Fprintf(&b, "\nPlan: %s.\n", req.Route.Plan)
	}

	if req.Result.Failed() {
		fmt.Fprintf(&b, "\nNo analysis could be performed: %s.\n", req.Result.Error)
		b.WriteString("The answer above is based on business context only.\n")
		return b.String()
	}

	b.WriteString("\nFindings:\n")
	b.WriteString(req.Result.Summary)
	b.WriteString("\n")
	for _, f := range req.Result.Breakdown {
		fmt.Fprintf(&b, "  - %s: %.2f\n", f.Label, f.Value)
	}
	writeMetrics(&b, req.Result.Metrics)

	fmt.Fprintf(&b, "\nRecommendation: %s\n", recommendation(req.Result))

	return b.String()
}

func writeMetrics(b *strings.Builder, metrics map[string]float64) {
	if len(metrics) == 0 {
		return
	}
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s = %.2f\n", k, metrics[k])
	}
}

// recommendation picks a fixed sentence keyed on the tool and its numbers.
// Thresholds are rules of thumb for the demo dataset, not tuned values.
func recommendation(result contractx.ToolResult) string {
	m := result.Metrics

	switch result.Tool {
	case tool.ToolDeliveryImpact:
		if m["delivery_gap_days"] >= deliveryGapAlert {
			return "Churned customers wait noticeably longer for deliveries; prioritize logistics fixes for the slowest routes before spending on acquisition."
		}
		return "Delivery times differ little between churned and retained customers; look beyond logistics for churn drivers."
	case tool.ToolEngagementImpact:
		if m["engagement_gap_visits"] >= engagementGapAlert {
			return "Low visit frequency precedes churn; invest in post-purchase engagement and re-activation nudges."
		}
		return "Visit behavior is similar across both groups; engagement alone does not explain churn."
	case tool.ToolChannelPerformance, tool.ToolCityPerformance, tool.ToolDemographics:
		if len(result.Breakdown) > 0 && result.Breakdown[0].Value >= segmentAlertPct {
			return fmt.Sprintf("The %s segment churns well above the rest; target retention efforts there first.", result.Breakdown[0].Label)
		}
		return "Churn is spread fairly evenly across segments; a broad retention program beats segment targeting here."
	case tool.ToolChurnModel:
		if len(result.Breakdown) > 0 {
			return fmt.Sprintf("The model points at %s as the strongest churn driver; validate it with a targeted experiment.", result.Breakdown[0].Label)
		}
		return "The baseline model found no dominant driver; collect more behavioral features before acting."
	default:
		if m["churn_rate_pct"] >= churnRateAlertPct {
			return "Overall churn is above the comfort threshold; start with the delivery and engagement driver analyses to find out why."
		}
		if m["discount_share_pct"] >= discountShareAlertPct {
			return "A large share of orders only close with a discount; the base may be discount-dependent, so test retention offers that do not rely on price cuts."
		}
		return "Overall churn is within normal range; monitor the highlighted metrics and re-run the driver analyses monthly."
	}
}
