package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresConfig points at a read-only Postgres copy of the four tables.
type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type customerRow struct {
	bun.BaseModel `bun:"table:customers"`

	CustomerID    string  `bun:"customer_id"`
	Gender        string  `bun:"gender"`
	Age           float64 `bun:"age"`
	City          string  `bun:"city"`
	SignupChannel string  `bun:"signup_channel"`
}

type orderRow struct {
	bun.BaseModel `bun:"table:orders"`

	OrderID         string  `bun:"order_id"`
	CustomerID      string  `bun:"customer_id"`
	OrderValue      float64 `bun:"order_value"`
	DeliveryDays    float64 `bun:"delivery_days"`
	DiscountApplied string  `bun:"discount_applied"`
}

type engagementRow struct {
	bun.BaseModel `bun:"table:customer_engagement"`

	CustomerID     string  `bun:"customer_id"`
	MonthlyVisits  float64 `bun:"monthly_visits"`
	SupportTickets float64 `bun:"support_tickets"`
}

type labelRow struct {
	bun.BaseModel `bun:"table:churn_labels"`

	CustomerID string `bun:"customer_id"`
	IsChurned  int    `bun:"is_churned"`
}

// LoadPostgres reads the four tables from Postgres in one pass and joins
// them. The session never writes back; the connection is closed before
// returning.
func LoadPostgres(ctx context.Context, cfg PostgresConfig) (*Tables, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	var (
		customerRows []customerRow
		orderRows    []orderRow
		engageRows   []engagementRow
		churnRows    []labelRow
	)
	if err := db.NewSelect().Model(&customerRows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	if err := db.NewSelect().Model(&orderRows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	if err := db.NewSelect().Model(&engageRows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("select engagement: %w", err)
	}
	if err := db.NewSelect().Model(&churnRows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("select churn labels: %w", err)
	}

	customers := make([]Customer, 0, len(customerRows))
	for _, r := range customerRows {
		customers = append(customers, Customer{
			ID:            r.CustomerID,
			Gender:        r.Gender,
			AgeYears:      r.Age,
			City:          r.City,
			SignupChannel: r.SignupChannel,
		})
	}
	orders := make([]Order, 0, len(orderRows))
	for _, r := range orderRows {
		orders = append(orders, Order{
			ID:              r.OrderID,
			CustomerID:      r.CustomerID,
			Value:           r.OrderValue,
			DeliveryDays:    r.DeliveryDays,
			DiscountApplied: strings.EqualFold(r.DiscountApplied, "yes"),
		})
	}
	engagement := make([]Engagement, 0, len(engageRows))
	for _, r := range engageRows {
		engagement = append(engagement, Engagement{
			CustomerID:     r.CustomerID,
			MonthlyVisits:  r.MonthlyVisits,
			SupportTickets: r.SupportTickets,
		})
	}
	labels := make([]ChurnLabel, 0, len(churnRows))
	for _, r := range churnRows {
		labels = append(labels, ChurnLabel{
			CustomerID: r.CustomerID,
			Churned:    r.IsChurned == 1,
		})
	}

	return Build(customers, orders, engagement, labels)
}
