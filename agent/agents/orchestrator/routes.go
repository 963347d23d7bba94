package orchestrator

import (
	"strings"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/tool"
)

// rule binds a keyword set to a tool. Keywords match by substring
// containment on the lowered query.
type rule struct {
	keywords []string
	tool     string
	plan     string
}

// routingRules is the static dispatch table. Order is the tie break: the
// first rule with any matching keyword wins, so a query mentioning both
// delivery and channels runs the delivery analysis.
var routingRules = []rule{
	{keywords: []string{"delivery", "deliver", "shipping"}, tool: tool.ToolDeliveryImpact, plan: "investigate delivery times"},
	{keywords: []string{"channel"}, tool: tool.ToolChannelPerformance, plan: "check acquisition channels"},
	{keywords: []string{"city", "region"}, tool: tool.ToolCityPerformance, plan: "check churn by city"},
	{keywords: []string{"gender", "demograph"}, tool: tool.ToolDemographics, plan: "check demographic splits"},
	{keywords: []string{"visit", "engage"}, tool: tool.ToolEngagementImpact, plan: "check engagement behavior"},
	{keywords: []string{"model", "predict", "driver"}, tool: tool.ToolChurnModel, plan: "train the churn model"},
}

// route selects zero or one tool for a query, first match wins. A miss
// falls back to the default summary tool.
func route(query string) contractx.Route {
	q := strings.ToLower(query)

	for _, r := range routingRules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return contractx.Route{Tool: r.tool, Plan: r.plan, Keyword: kw}
			}
		}
	}

	return contractx.Route{
		Tool:     tool.ToolDataSummary,
		Plan:     "summarize the data",
		Fallback: true,
	}
}
