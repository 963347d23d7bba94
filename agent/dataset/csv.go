package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrMissingColumn = errors.New("required column is missing")

const (
	customersFile  = "customers.csv"
	ordersFile     = "orders.csv"
	engagementFile = "customer_engagement.csv"
	labelsFile     = "churn_labels.csv"
)

// Config locates the CSV drop directory.
type Config struct {
	Dir string `split_words:"true" default:"data"`
}

// LoadDir reads the four ShopEase CSV files from dir and joins them.
// The engagement file is optional; tools that need it degrade on their own.
func LoadDir(dir string) (*Tables, error) {
	customers, err := loadCustomers(filepath.Join(dir, customersFile))
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	orders, err := loadOrders(filepath.Join(dir, ordersFile))
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	labels, err := loadLabels(filepath.Join(dir, labelsFile))
	if err != nil {
		return nil, fmt.Errorf("load churn labels: %w", err)
	}

	engagement, err := loadEngagement(filepath.Join(dir, engagementFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load engagement: %w", err)
		}
		engagement = nil
	}

	return Build(customers, orders, engagement, labels)
}

func loadCustomers(path string) ([]Customer, error) {
	var out []Customer
	err := readTable(path, []string{"customer_id"}, func(row tableRow) {
		out = append(out, Customer{
			ID:            row.str("customer_id"),
			Gender:        row.str("gender"),
			AgeYears:      row.num("age"),
			City:          row.str("city"),
			SignupChannel: row.str("signup_channel"),
		})
	})
	return out, err
}

func loadOrders(path string) ([]Order, error) {
	var out []Order
	err := readTable(path, []string{"order_id", "customer_id"}, func(row tableRow) {
		out = append(out, Order{
			ID:              row.str("order_id"),
			CustomerID:      row.str("customer_id"),
			Value:           row.num("order_value"),
			DeliveryDays:    row.num("delivery_days"),
			DiscountApplied: strings.EqualFold(row.str("discount_applied"), "yes"),
		})
	})
	return out, err
}

func loadEngagement(path string) ([]Engagement, error) {
	var out []Engagement
	err := readTable(path, []string{"customer_id"}, func(row tableRow) {
		out = append(out, Engagement{
			CustomerID:     row.str("customer_id"),
			MonthlyVisits:  row.num("monthly_visits"),
			SupportTickets: row.num("support_tickets"),
		})
	})
	return out, err
}

func loadLabels(path string) ([]ChurnLabel, error) {
	var out []ChurnLabel
	err := readTable(path, []string{"customer_id", "is_churned"}, func(row tableRow) {
		out = append(out, ChurnLabel{
			CustomerID: row.str("customer_id"),
			Churned:    row.num("is_churned") == 1 || strings.EqualFold(row.str("is_churned"), "yes"),
		})
	})
	return out, err
}

type tableRow struct {
	index  map[string]int
	values []string
}

func (r tableRow) str(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r tableRow) num(column string) float64 {
	f, err := strconv.ParseFloat(r.str(column), 64)
	if err != nil {
		return 0
	}
	return f
}

// readTable streams a CSV file row by row. Headers are normalized to
// snake_case; malformed rows are skipped.
func readTable(path string, required []string, visit func(tableRow)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV headers: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[toSnakeCase(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%w: %s in %s", ErrMissingColumn, col, filepath.Base(path))
		}
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		visit(tableRow{index: index, values: row})
	}

	return nil
}

// toSnakeCase converts "Column Name" to "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
