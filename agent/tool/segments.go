package tool

import (
	"fmt"
	"sort"
	"strings"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/dataset"
)

// segmentTool is the grouped-rate analysis shared by the channel, city, and
// demographics tools: churn rate per dimension value, worst first.
type segmentTool struct {
	name      string
	describe  string
	dimension string
	key       func(dataset.Customer360) string
}

func newChannelTool() segmentTool {
	return segmentTool{
		name:      ToolChannelPerformance,
		describe:  "Churn rate by signup channel, worst first.",
		dimension: "signup channel",
		key:       func(r dataset.Customer360) string { return r.SignupChannel },
	}
}

func newCityTool() segmentTool {
	return segmentTool{
		name:      ToolCityPerformance,
		describe:  "Churn rate by city, worst first.",
		dimension: "city",
		key:       func(r dataset.Customer360) string { return r.City },
	}
}

func newDemographicsTool() segmentTool {
	return segmentTool{
		name:      ToolDemographics,
		describe:  "Churn rate by gender.",
		dimension: "gender",
		key:       func(r dataset.Customer360) string { return r.Gender },
	}
}

func (t segmentTool) Name() string     { return t.name }
func (t segmentTool) Describe() string { return t.describe }

func (t segmentTool) Run(tables *dataset.Tables) contractx.ToolResult {
	rows, failed := guardRows(t.name, tables)
	if failed != nil {
		return *failed
	}

	breakdown, ok := churnRateBy(rows, t.key)
	if !ok {
		return contractx.ToolResult{
			Tool:  t.name,
			Error: fmt.Sprintf("%s: %s", contractx.ErrMissingColumn, t.dimension),
		}
	}

	worst := breakdown[0]
	return contractx.ToolResult{
		Tool: t.name,
		Summary: fmt.Sprintf("Churn rate by %s: worst segment is %s at %.1f%%.",
			t.dimension, worst.Label, worst.Value),
		Breakdown: breakdown,
		Metrics: map[string]float64{
			"worst_segment_churn_pct": worst.Value,
			"segments":                float64(len(breakdown)),
		},
	}
}

// churnRateBy computes churn rate (percent) per dimension value, sorted by
// rate descending with label order as the deterministic tie break. Returns
// ok=false when the dimension is blank on every row, i.e. the column was
// never loaded.
func churnRateBy(rows []dataset.Customer360, key func(dataset.Customer360) string) ([]contractx.Finding, bool) {
	type tally struct {
		churned float64
		total   float64
	}
	byKey := make(map[string]*tally)
	populated := false

	for _, r := range rows {
		k := strings.TrimSpace(key(r))
		if k == "" {
			continue
		}
		populated = true
		t, ok := byKey[k]
		if !ok {
			t = &tally{}
			byKey[k] = t
		}
		t.total++
		if r.Churned {
			t.churned++
		}
	}

	if !populated {
		return nil, false
	}

	findings := make([]contractx.Finding, 0, len(byKey))
	for k, t := range byKey {
		findings = append(findings, contractx.Finding{
			Label: k,
			Value: t.churned / t.total * 100,
		})
	}
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Value != findings[j].Value {
			return findings[i].Value > findings[j].Value
		}
		return findings[i].Label < findings[j].Label
	})

	return findings, true
}
