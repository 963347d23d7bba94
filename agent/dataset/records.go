// Package dataset loads the ShopEase tables once at startup and joins them
// into an immutable per-customer view used by every analysis tool.
package dataset

import (
	"errors"
	"sort"
)

var (
	ErrNoCustomers = errors.New("customers table is empty")
	ErrNoLabels    = errors.New("churn labels table is empty")
)

type Customer struct {
	ID            string
	Gender        string
	AgeYears      float64
	City          string
	SignupChannel string
}

type Order struct {
	ID              string
	CustomerID      string
	Value           float64
	DeliveryDays    float64
	DiscountApplied bool
}

type Engagement struct {
	CustomerID     string
	MonthlyVisits  float64
	SupportTickets float64
}

type ChurnLabel struct {
	CustomerID string
	Churned    bool
}

// Customer360 is one joined row per customer: attributes, engagement,
// order aggregates, and the churn label. Customers without orders keep
// zero-valued aggregates.
type Customer360 struct {
	CustomerID      string
	Gender          string
	City            string
	SignupChannel   string
	AgeYears        float64
	MonthlyVisits   float64
	SupportTickets  float64
	TotalOrders     float64
	TotalRevenue    float64
	AvgDeliveryDays float64
	DiscountCount   float64
	Churned         bool
}

// Tables holds the loaded source records plus the joined view. It is built
// once and read-only afterwards; no component mutates it.
type Tables struct {
	Customers  []Customer
	Orders     []Order
	Engagement []Engagement
	Labels     []ChurnLabel

	merged []Customer360
}

// Build joins the source tables into the Customer360 view. Customers without
// a churn label are dropped; missing engagement or order data degrades to
// zero values, mirroring a left join with zero fill.
func Build(customers []Customer, orders []Order, engagement []Engagement, labels []ChurnLabel) (*Tables, error) {
	if len(customers) == 0 {
		return nil, ErrNoCustomers
	}
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}

	labelByID := make(map[string]bool, len(labels))
	for _, l := range labels {
		labelByID[l.CustomerID] = l.Churned
	}

	engagementByID := make(map[string]Engagement, len(engagement))
	for _, e := range engagement {
		engagementByID[e.CustomerID] = e
	}

	type orderAgg struct {
		count     float64
		revenue   float64
		delivery  float64
		discounts float64
	}
	aggByID := make(map[string]orderAgg)
	for _, o := range orders {
		agg := aggByID[o.CustomerID]
		agg.count++
		agg.revenue += o.Value
		agg.delivery += o.DeliveryDays
		if o.DiscountApplied {
			agg.discounts++
		}
		aggByID[o.CustomerID] = agg
	}

	merged := make([]Customer360, 0, len(customers))
	for _, c := range customers {
		churned, ok := labelByID[c.ID]
		if !ok {
			continue
		}

		row := Customer360{
			CustomerID:    c.ID,
			Gender:        c.Gender,
			City:          c.City,
			SignupChannel: c.SignupChannel,
			AgeYears:      c.AgeYears,
			Churned:       churned,
		}
		if e, ok := engagementByID[c.ID]; ok {
			row.MonthlyVisits = e.MonthlyVisits
			row.SupportTickets = e.SupportTickets
		}
		if agg, ok := aggByID[c.ID]; ok && agg.count > 0 {
			row.TotalOrders = agg.count
			row.TotalRevenue = agg.revenue
			row.AvgDeliveryDays = agg.delivery / agg.count
			row.DiscountCount = agg.discounts
		}
		merged = append(merged, row)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].CustomerID < merged[j].CustomerID })

	return &Tables{
		Customers:  customers,
		Orders:     orders,
		Engagement: engagement,
		Labels:     labels,
		merged:     merged,
	}, nil
}

// Merged returns the joined view. Callers must treat it as read-only.
func (t *Tables) Merged() []Customer360 {
	if t == nil {
		return nil
	}
	return t.merged
}

// HasEngagement reports whether engagement records were loaded at all;
// tools over visit behavior report a missing-data failure when false.
func (t *Tables) HasEngagement() bool {
	return t != nil && len(t.Engagement) > 0
}

// HasOrders reports whether order records were loaded at all.
func (t *Tables) HasOrders() bool {
	return t != nil && len(t.Orders) > 0
}
