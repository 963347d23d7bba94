// Package tool implements the fixed catalog of analysis routines over the
// loaded ShopEase tables. Every tool is pure and single-shot: it reads the
// joined view, never mutates it, and reports failures inside the ToolResult
// instead of returning a Go error.
package tool

import (
	contractx "github.com/shopease/churn-analyst/agent/contract"
	"github.com/shopease/churn-analyst/agent/dataset"
)

const (
	ToolDataSummary        = "data.summary"
	ToolDeliveryImpact     = "delivery.impact"
	ToolChannelPerformance = "channel.performance"
	ToolCityPerformance    = "city.performance"
	ToolDemographics       = "demographics.split"
	ToolEngagementImpact   = "engagement.impact"
	ToolChurnModel         = "churn.model"
)

// Catalog is the fixed, ordered tool registry. data.summary doubles as the
// default tool for queries no routing rule claims.
type Catalog struct {
	order []string
	tools map[string]contractx.Tool
}

var _ contractx.Catalog = (*Catalog)(nil)

func NewCatalog() *Catalog {
	c := &Catalog{tools: make(map[string]contractx.Tool)}
	c.register(summaryTool{})
	c.register(deliveryTool{})
	c.register(newChannelTool())
	c.register(newCityTool())
	c.register(newDemographicsTool())
	c.register(engagementTool{})
	c.register(modelTool{})
	return c
}

func (c *Catalog) register(t contractx.Tool) {
	c.order = append(c.order, t.Name())
	c.tools[t.Name()] = t
}

func (c *Catalog) Lookup(name string) (contractx.Tool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

func (c *Catalog) Default() contractx.Tool {
	return c.tools[ToolDataSummary]
}

// Names returns the registration order, for listings.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// guardRows is the shared missing-data check all tools run first.
func guardRows(name string, tables *dataset.Tables) ([]dataset.Customer360, *contractx.ToolResult) {
	if tables == nil {
		return nil, &contractx.ToolResult{Tool: name, Error: contractx.ErrDataNotLoaded.Error()}
	}
	rows := tables.Merged()
	if len(rows) == 0 {
		return nil, &contractx.ToolResult{Tool: name, Error: contractx.ErrEmptyTable.Error()}
	}
	return rows, nil
}
