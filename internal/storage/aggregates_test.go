package storage

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/salescope/salescope/internal/model"
)

// seedAggregateOrders loads a small fixed dataset with known aggregates:
// three customers across two regions and two months.
func seedAggregateOrders(t *testing.T, store *SQLiteStorage) {
	t.Helper()

	day := func(y int, m time.Month, d int) model.Date {
		return model.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	orders := []model.Order{
		{
			OrderID: "ORD-000001", OrderDate: day(2024, 1, 10), CustomerID: "C-ALICE", CustomerName: "Alice",
			Region: "South", Product: "Widget", Category: "Tools", Quantity: 1,
			UnitPrice: 100, CostPrice: 70, Discount: 0, SalesAmount: 100, Profit: 30,
			PaymentMethod: "Credit Card", Age: 25, Gender: "Female", AnnualIncome: 50000,
		},
		{
			OrderID: "ORD-000002", OrderDate: day(2024, 1, 20), CustomerID: "C-ALICE", CustomerName: "Alice",
			Region: "South", Product: "Widget", Category: "Tools", Quantity: 2,
			UnitPrice: 100, CostPrice: 70, Discount: 0, SalesAmount: 200, Profit: 60,
			PaymentMethod: "Cash", Age: 25, Gender: "Female", AnnualIncome: 50000,
		},
		{
			OrderID: "ORD-000003", OrderDate: day(2024, 2, 5), CustomerID: "C-BOB", CustomerName: "Bob",
			Region: "South", Product: "Gadget", Category: "Electronics", Quantity: 3,
			UnitPrice: 125, CostPrice: 80, Discount: 0.2, SalesAmount: 300, Profit: 60,
			PaymentMethod: "Credit Card", Age: 40, Gender: "Male", AnnualIncome: 2000000,
		},
		{
			OrderID: "ORD-000004", OrderDate: day(2024, 2, 15), CustomerID: "C-CAROL", CustomerName: "Carol",
			Region: "North", Product: "Widget", Category: "Tools", Quantity: 4,
			UnitPrice: 100, CostPrice: 75, Discount: 0, SalesAmount: 400, Profit: 100,
			PaymentMethod: "Cash", Age: 35, Gender: "Female", AnnualIncome: 1200000,
		},
	}

	if _, err := store.InsertOrders(context.Background(), orders); err != nil {
		t.Fatalf("Failed to seed orders: %v", err)
	}
}

func TestSQLiteStorage_Totals(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	totals, err := store.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals() error: %v", err)
	}
	if totals.Revenue != 0 || totals.Orders != 0 || totals.Customers != 0 {
		t.Errorf("Totals() on empty store = %+v, want zeros", totals)
	}

	seedAggregateOrders(t, store)

	totals, err = store.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals() error: %v", err)
	}
	if totals.Revenue != 1000 {
		t.Errorf("Totals().Revenue = %v, want 1000", totals.Revenue)
	}
	if totals.Profit != 250 {
		t.Errorf("Totals().Profit = %v, want 250", totals.Profit)
	}
	if totals.Orders != 4 {
		t.Errorf("Totals().Orders = %d, want 4", totals.Orders)
	}
	if totals.Customers != 3 {
		t.Errorf("Totals().Customers = %d, want 3", totals.Customers)
	}
}

func TestSQLiteStorage_TopGroups(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Empty store reports no leader rather than an error.
	stat, err := store.TopRegionByRevenue(ctx)
	if err != nil {
		t.Fatalf("TopRegionByRevenue() error: %v", err)
	}
	if stat != nil {
		t.Errorf("TopRegionByRevenue() on empty store = %+v, want nil", stat)
	}

	seedAggregateOrders(t, store)

	tests := []struct {
		query     func(context.Context) (name string, value float64, err error)
		name      string
		wantName  string
		wantValue float64
	}{
		{
			name: "top region by revenue",
			query: func(ctx context.Context) (string, float64, error) {
				s, err := store.TopRegionByRevenue(ctx)
				return s.Name, s.Value, err
			},
			wantName: "South", wantValue: 600,
		},
		{
			name: "top product by revenue",
			query: func(ctx context.Context) (string, float64, error) {
				s, err := store.TopProductByRevenue(ctx)
				return s.Name, s.Value, err
			},
			wantName: "Widget", wantValue: 700,
		},
		{
			name: "top payment method by average order",
			query: func(ctx context.Context) (string, float64, error) {
				s, err := store.TopPaymentMethodByAvgOrder(ctx)
				return s.Name, s.Value, err
			},
			wantName: "Cash", wantValue: 300,
		},
		{
			name: "top age bucket by revenue",
			query: func(ctx context.Context) (string, float64, error) {
				s, err := store.TopAgeBucketByRevenue(ctx)
				return s.Name, s.Value, err
			},
			wantName: "Established (30+)", wantValue: 700,
		},
		{
			name: "top gender by revenue",
			query: func(ctx context.Context) (string, float64, error) {
				s, err := store.TopGenderByRevenue(ctx)
				return s.Name, s.Value, err
			},
			wantName: "Female", wantValue: 700,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, value, err := tt.query(ctx)
			if err != nil {
				t.Fatalf("query error: %v", err)
			}
			if name != tt.wantName {
				t.Errorf("name = %s, want %s", name, tt.wantName)
			}
			if value != tt.wantValue {
				t.Errorf("value = %v, want %v", value, tt.wantValue)
			}
		})
	}
}

func TestSQLiteStorage_RepeatCustomerRate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rate, err := store.RepeatCustomerRate(ctx, "South")
	if err != nil {
		t.Fatalf("RepeatCustomerRate() error: %v", err)
	}
	if rate != nil {
		t.Errorf("RepeatCustomerRate() on empty store = %v, want nil", *rate)
	}

	seedAggregateOrders(t, store)

	// South: Alice has 2 orders, Bob has 1 -> 50%.
	rate, err = store.RepeatCustomerRate(ctx, "South")
	if err != nil {
		t.Fatalf("RepeatCustomerRate() error: %v", err)
	}
	if rate == nil || *rate != 50 {
		t.Errorf("RepeatCustomerRate(South) = %v, want 50", rate)
	}

	// All regions: 1 of 3 customers repeats -> 33.3%.
	rate, err = store.RepeatCustomerRate(ctx, "")
	if err != nil {
		t.Fatalf("RepeatCustomerRate() error: %v", err)
	}
	if rate == nil || *rate != 33.3 {
		t.Errorf("RepeatCustomerRate() = %v, want 33.3", rate)
	}
}

func TestSQLiteStorage_DiscountMargins(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	seedAggregateOrders(t, store)

	margins, err := store.DiscountMargins(ctx)
	if err != nil {
		t.Fatalf("DiscountMargins() error: %v", err)
	}
	// High-discount cohort is the single 20% order at 60/300 margin.
	if margins.HighDiscount != 20 {
		t.Errorf("DiscountMargins().HighDiscount = %v, want 20", margins.HighDiscount)
	}
	// Full-price cohort averages 30%, 30%, and 25%.
	if math.Abs(margins.FullPrice-28.333) > 0.01 {
		t.Errorf("DiscountMargins().FullPrice = %v, want ~28.333", margins.FullPrice)
	}
}

func TestSQLiteStorage_MonthlyAndYearlyRevenue(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	seedAggregateOrders(t, store)

	months, err := store.MonthlyRevenue(ctx, 2)
	if err != nil {
		t.Fatalf("MonthlyRevenue() error: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("MonthlyRevenue() returned %d months, want 2", len(months))
	}
	if months[0].Month != "2024-02" || months[0].Revenue != 700 {
		t.Errorf("MonthlyRevenue()[0] = %+v, want 2024-02 / 700", months[0])
	}
	if months[1].Month != "2024-01" || months[1].Revenue != 300 {
		t.Errorf("MonthlyRevenue()[1] = %+v, want 2024-01 / 300", months[1])
	}

	years, err := store.YearlyRevenue(ctx)
	if err != nil {
		t.Fatalf("YearlyRevenue() error: %v", err)
	}
	if len(years) != 1 || years[0].Year != "2024" || years[0].Revenue != 1000 {
		t.Errorf("YearlyRevenue() = %+v, want single 2024 / 1000", years)
	}
}

func TestSQLiteStorage_HighIncomeAvgOrder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	seedAggregateOrders(t, store)

	avg, err := store.HighIncomeAvgOrder(ctx, 1000000)
	if err != nil {
		t.Fatalf("HighIncomeAvgOrder() error: %v", err)
	}
	// Bob and Carol qualify: (300 + 400) / 2.
	if avg == nil || *avg != 350 {
		t.Errorf("HighIncomeAvgOrder() = %v, want 350", avg)
	}

	avg, err = store.HighIncomeAvgOrder(ctx, 5000000)
	if err != nil {
		t.Fatalf("HighIncomeAvgOrder() error: %v", err)
	}
	if avg != nil {
		t.Errorf("HighIncomeAvgOrder() above all incomes = %v, want nil", *avg)
	}
}

func TestSQLiteStorage_ChartSeries(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	seedAggregateOrders(t, store)

	monthly, err := store.MonthlySeries(ctx)
	if err != nil {
		t.Fatalf("MonthlySeries() error: %v", err)
	}
	if len(monthly) != 2 {
		t.Fatalf("MonthlySeries() returned %d points, want 2", len(monthly))
	}
	// Oldest first for charting.
	if monthly[0].Month != "2024-01" || monthly[0].Revenue != 300 || monthly[0].Orders != 2 {
		t.Errorf("MonthlySeries()[0] = %+v, want 2024-01 / 300 / 2 orders", monthly[0])
	}

	products, err := store.ProductSeries(ctx, 10)
	if err != nil {
		t.Fatalf("ProductSeries() error: %v", err)
	}
	if len(products) != 2 || products[0].Product != "Widget" || products[0].Revenue != 700 {
		t.Errorf("ProductSeries() = %+v, want Widget leading at 700", products)
	}
	if products[0].Units != 7 {
		t.Errorf("ProductSeries()[0].Units = %d, want 7", products[0].Units)
	}

	regions, err := store.RegionSeries(ctx)
	if err != nil {
		t.Fatalf("RegionSeries() error: %v", err)
	}
	if len(regions) != 2 || regions[0].Region != "South" {
		t.Fatalf("RegionSeries() = %+v, want South leading", regions)
	}
	if regions[0].Customers != 2 {
		t.Errorf("RegionSeries()[0].Customers = %d, want 2", regions[0].Customers)
	}
	// South margin: 150 profit on 600 revenue.
	if regions[0].Margin != 25 {
		t.Errorf("RegionSeries()[0].Margin = %v, want 25", regions[0].Margin)
	}

	categories, err := store.CategorySeries(ctx)
	if err != nil {
		t.Fatalf("CategorySeries() error: %v", err)
	}
	if len(categories) != 2 || categories[0].Category != "Tools" || categories[0].Revenue != 700 {
		t.Errorf("CategorySeries() = %+v, want Tools leading at 700", categories)
	}

	top, err := store.TopProducts(ctx, 5)
	if err != nil {
		t.Fatalf("TopProducts() error: %v", err)
	}
	if len(top) != 2 || top[0].Name != "Widget" {
		t.Errorf("TopProducts() = %+v, want Widget first", top)
	}

	payments, err := store.PaymentSeries(ctx)
	if err != nil {
		t.Fatalf("PaymentSeries() error: %v", err)
	}
	if len(payments) != 2 || payments[0].Method != "Cash" || payments[0].Revenue != 600 {
		t.Errorf("PaymentSeries() = %+v, want Cash leading at 600", payments)
	}

	ages, err := store.AgeHistogram(ctx)
	if err != nil {
		t.Fatalf("AgeHistogram() error: %v", err)
	}
	if len(ages) != 2 {
		t.Fatalf("AgeHistogram() returned %d buckets, want 2", len(ages))
	}
	if ages[0].Bucket != "25-34" || ages[0].Count != 2 || ages[0].Revenue != 300 {
		t.Errorf("AgeHistogram()[0] = %+v, want 25-34 / 2 / 300", ages[0])
	}
	if ages[1].Bucket != "35-44" || ages[1].Count != 2 || ages[1].Revenue != 700 {
		t.Errorf("AgeHistogram()[1] = %+v, want 35-44 / 2 / 700", ages[1])
	}
}
