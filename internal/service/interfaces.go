// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/salescope/salescope/internal/model"
)

// OrderReader is the read-only slice of the store the cleaning pipeline needs:
// duplicate detection and sequence counting. The pipeline never writes.
type OrderReader interface {
	CountOrders(ctx context.Context) (int, error)
	OrderIDExists(ctx context.Context, orderID string) (bool, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	OrderReader
	AggregateSource
	ChartSource

	// InsertOrder persists a single order and fails on a duplicate order id.
	InsertOrder(ctx context.Context, order *model.Order) error
	// InsertOrders persists a batch with insert-or-ignore semantics and
	// reports how many rows were actually inserted.
	InsertOrders(ctx context.Context, orders []model.Order) (int, error)
	ListRecentOrders(ctx context.Context, limit int) ([]model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	ClearOrders(ctx context.Context) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Totals holds the headline portfolio aggregates.
type Totals struct {
	Revenue   float64
	Profit    float64
	Orders    int
	Customers int
}

// GroupStat is one named group with an aggregate value (revenue or average).
type GroupStat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MonthRevenue is one calendar month's revenue, keyed as "YYYY-MM".
type MonthRevenue struct {
	Month   string
	Revenue float64
}

// YearRevenue is one calendar year's revenue.
type YearRevenue struct {
	Year    string
	Revenue float64
}

// DiscountMargins compares average profit margins of the high-discount cohort
// (>15% discount) against full-price orders. Either value is zero when the
// cohort has no qualifying orders.
type DiscountMargins struct {
	HighDiscount float64
	FullPrice    float64
}

// AggregateSource is the query capability the insight engine runs against.
// Pointer results are nil when no qualifying rows exist.
type AggregateSource interface {
	Totals(ctx context.Context) (Totals, error)
	TopRegionByRevenue(ctx context.Context) (*GroupStat, error)
	// RepeatCustomerRate reports the percentage of customers with two or more
	// orders, optionally scoped to one region (empty string for all).
	RepeatCustomerRate(ctx context.Context, region string) (*float64, error)
	TopProductByRevenue(ctx context.Context) (*GroupStat, error)
	DiscountMargins(ctx context.Context) (DiscountMargins, error)
	// MonthlyRevenue returns up to limit months, most recent first.
	MonthlyRevenue(ctx context.Context, limit int) ([]MonthRevenue, error)
	TopPaymentMethodByAvgOrder(ctx context.Context) (*GroupStat, error)
	TopAgeBucketByRevenue(ctx context.Context) (*GroupStat, error)
	TopGenderByRevenue(ctx context.Context) (*GroupStat, error)
	// HighIncomeAvgOrder reports the average order value of customers whose
	// annual income exceeds the threshold, or nil when none qualify.
	HighIncomeAvgOrder(ctx context.Context, incomeThreshold float64) (*float64, error)
	YearlyRevenue(ctx context.Context) ([]YearRevenue, error)
}

// MonthlyPoint is one month of chart data.
type MonthlyPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Orders  int     `json:"orders"`
}

// ProductPoint is one product's chart aggregates.
type ProductPoint struct {
	Product string  `json:"product"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Units   int     `json:"units"`
}

// RegionPoint is one region's chart aggregates.
type RegionPoint struct {
	Region    string  `json:"region"`
	Revenue   float64 `json:"revenue"`
	Profit    float64 `json:"profit"`
	Customers int     `json:"customers"`
	Margin    float64 `json:"margin"`
}

// CategoryPoint is one category's chart aggregates.
type CategoryPoint struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Profit   float64 `json:"profit"`
}

// PaymentPoint is one payment method's total revenue.
type PaymentPoint struct {
	Method  string  `json:"payment_method"`
	Revenue float64 `json:"revenue"`
}

// AgePoint is one age bracket of the customer histogram.
type AgePoint struct {
	Bucket  string  `json:"age_bucket"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ChartSource supplies the presentation-layer chart aggregates.
type ChartSource interface {
	MonthlySeries(ctx context.Context) ([]MonthlyPoint, error)
	ProductSeries(ctx context.Context, limit int) ([]ProductPoint, error)
	RegionSeries(ctx context.Context) ([]RegionPoint, error)
	CategorySeries(ctx context.Context) ([]CategoryPoint, error)
	TopProducts(ctx context.Context, limit int) ([]GroupStat, error)
	PaymentSeries(ctx context.Context) ([]PaymentPoint, error)
	AgeHistogram(ctx context.Context) ([]AgePoint, error)
}
