package tool

import (
	"fmt"
	"math/rand"
	"sort"

	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/dataset"
)

const (
	modelSeed     = 42
	modelTrees    = 50
	modelMaxDepth = 5
	modelMinLeaf  = 2
	trainShare    = 0.75
	topFactors    = 5
	minModelRows  = 8
)

var featureNames = []string{
	"age_years",
	"monthly_visits",
	"support_tickets",
	"total_orders",
	"total_revenue",
	"avg_delivery_days",
	"discount_count",
}

func featureVector(r dataset.Customer360) []float64 {
	return []float64{
		r.AgeYears,
		r.MonthlyVisits,
		r.SupportTickets,
		r.TotalOrders,
		r.TotalRevenue,
		r.AvgDeliveryDays,
		r.DiscountCount,
	}
}

// modelTool trains the baseline churn classifier: a fixed-seed random forest
// over the numeric columns with a deterministic 75/25 split. Identical tables
// always yield identical accuracy and importances.
type modelTool struct{}

func (modelTool) Name() string { return ToolChurnModel }

func (modelTool) Describe() string {
	return "Train a baseline churn classifier and rank the top statistical drivers."
}

func (modelTool) Run(tables *dataset.Tables) contractx.ToolResult {
	rows, failed := guardRows(ToolChurnModel, tables)
	if failed != nil {
		return *failed
	}
	if len(rows) < minModelRows {
		return contractx.ToolResult{
			Tool:  ToolChurnModel,
			Error: fmt.Sprintf("not enough data to train a churn model: %d rows, need %d", len(rows), minModelRows),
		}
	}

	x := make([][]float64, len(rows))
	y := make([]bool, len(rows))
	for i, r := range rows {
		x[i] = featureVector(r)
		y[i] = r.Churned
	}

	rng := rand.New(rand.NewSource(modelSeed))
	perm := rng.Perm(len(rows))
	cut := int(float64(len(rows)) * trainShare)
	if cut < 1 || cut >= len(rows) {
		cut = len(rows) - 1
	}

	trainX := make([][]float64, 0, cut)
	trainY := make([]bool, 0, cut)
	for _, i := range perm[:cut] {
		trainX = append(trainX, x[i])
		trainY = append(trainY, y[i])
	}

	if singleClass(trainY) {
		return contractx.ToolResult{
			Tool:  ToolChurnModel,
			Error: "training split contains a single churn class; cannot fit a classifier",
		}
	}

	f := trainForest(trainX, trainY, forestConfig{
		trees:    modelTrees,
		maxDepth: modelMaxDepth,
		minLeaf:  modelMinLeaf,
	}, rng)

	var correct float64
	test := perm[cut:]
	for _, i := range test {
		if f.predict(x[i]) == y[i] {
			correct++
		}
	}
	accuracy := correct / float64(len(test)) * 100

	breakdown := topImportances(f.importances, topFactors)

	return contractx.ToolResult{
		Tool: ToolChurnModel,
		Summary: fmt.Sprintf("Baseline churn model: %.1f%% test accuracy on %d held-out customers; top driver is %s.",
			accuracy, len(test), breakdown[0].Label),
		Breakdown: breakdown,
		Metrics: map[string]float64{
			"accuracy_pct": accuracy,
			"train_rows":   float64(cut),
			"test_rows":    float64(len(test)),
		},
	}
}

func singleClass(y []bool) bool {
	if len(y) == 0 {
		return true
	}
	first := y[0]
	for _, v := range y[1:] {
		if v != first {
			return false
		}
	}
	return true
}

// topImportances ranks features by normalized importance, descending, with
// feature order as the tie break.
func topImportances(importances []float64, limit int) []contractx.Finding {
	findings := make([]contractx.Finding, len(featureNames))
	for i, name := range featureNames {
		findings[i] = contractx.Finding{Label: name, Value: importances[i]}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Value > findings[j].Value
	})
	if len(findings) > limit {
		findings = findings[:limit]
	}
	return findings
}
