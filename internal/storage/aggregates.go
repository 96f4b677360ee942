package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/salescope/salescope/internal/service"
)

// ageBucketExpr buckets customers into the two revenue cohorts the insight
// battery compares.
const ageBucketExpr = `CASE WHEN age < 30 THEN 'Younger (<30)' ELSE 'Established (30+)' END`

// Totals returns the headline portfolio aggregates. Zero values, not an
// error, when the store is empty.
func (s *SQLiteStorage) Totals(ctx context.Context) (service.Totals, error) {
	var totals service.Totals
	if err := validateContext(ctx); err != nil {
		return totals, err
	}

	query, args, err := sq.Select(
		"COALESCE(SUM(sales_amount), 0)",
		"COALESCE(SUM(profit), 0)",
		"COUNT(DISTINCT order_id)",
		"COUNT(DISTINCT customer_id)",
	).From("orders").ToSql()
	if err != nil {
		return totals, fmt.Errorf("failed to build totals query: %w", err)
	}

	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&totals.Revenue, &totals.Profit, &totals.Orders, &totals.Customers)
	if err != nil {
		return totals, fmt.Errorf("failed to query totals: %w", err)
	}
	return totals, nil
}

// TopRegionByRevenue returns the region with the highest total revenue, or nil
// when no orders exist.
func (s *SQLiteStorage) TopRegionByRevenue(ctx context.Context) (*service.GroupStat, error) {
	return s.topGroup(ctx, "region", "ROUND(SUM(sales_amount), 2)")
}

// TopProductByRevenue returns the product with the highest total revenue, or
// nil when no orders exist.
func (s *SQLiteStorage) TopProductByRevenue(ctx context.Context) (*service.GroupStat, error) {
	return s.topGroup(ctx, "product", "ROUND(SUM(sales_amount), 2)")
}

// TopPaymentMethodByAvgOrder returns the payment method with the highest
// average order value, or nil when no orders exist.
func (s *SQLiteStorage) TopPaymentMethodByAvgOrder(ctx context.Context) (*service.GroupStat, error) {
	return s.topGroup(ctx, "payment_method", "ROUND(AVG(sales_amount), 2)")
}

// TopAgeBucketByRevenue returns the age cohort with the higher total revenue,
// or nil when no orders exist.
func (s *SQLiteStorage) TopAgeBucketByRevenue(ctx context.Context) (*service.GroupStat, error) {
	return s.topGroup(ctx, ageBucketExpr, "ROUND(SUM(sales_amount), 2)")
}

// TopGenderByRevenue returns the gender segment with the highest total
// revenue, or nil when no orders exist. Callers decide how to treat "Unknown".
func (s *SQLiteStorage) TopGenderByRevenue(ctx context.Context) (*service.GroupStat, error) {
	return s.topGroup(ctx, "gender", "ROUND(SUM(sales_amount), 2)")
}

// topGroup runs a generic "largest group by aggregate" query.
func (s *SQLiteStorage) topGroup(ctx context.Context, groupExpr, aggExpr string) (*service.GroupStat, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := sq.Select(groupExpr+" AS grp", aggExpr+" AS val").
		From("orders").
		GroupBy("grp").
		OrderBy("val DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group query: %w", err)
	}

	var stat service.GroupStat
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&stat.Name, &stat.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query top %s: %w", groupExpr, err)
	}
	return &stat, nil
}

// RepeatCustomerRate reports the percentage of customers with two or more
// distinct orders, optionally scoped to one region. Nil when the scope has no
// customers at all.
func (s *SQLiteStorage) RepeatCustomerRate(ctx context.Context, region string) (*float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	inner := sq.Select("customer_id", "COUNT(DISTINCT order_id) AS c").
		From("orders").
		GroupBy("customer_id")
	if region != "" {
		inner = inner.Where(sq.Eq{"region": region})
	}
	innerSQL, args, err := inner.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build repeat-rate query: %w", err)
	}

	query := `SELECT ROUND(SUM(CASE WHEN c >= 2 THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 1)
		FROM (` + innerSQL + `)`

	var rate sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&rate); err != nil {
		return nil, fmt.Errorf("failed to query repeat rate: %w", err)
	}
	if !rate.Valid {
		return nil, nil
	}
	return &rate.Float64, nil
}

// DiscountMargins compares average margins of heavily discounted orders
// against full-price orders. A cohort with no orders reports zero.
func (s *SQLiteStorage) DiscountMargins(ctx context.Context) (service.DiscountMargins, error) {
	var margins service.DiscountMargins
	if err := validateContext(ctx); err != nil {
		return margins, err
	}

	query, args, err := sq.Select(
		"COALESCE(AVG(CASE WHEN discount > 0.15 THEN profit * 100.0 / NULLIF(sales_amount, 0) END), 0)",
		"COALESCE(AVG(CASE WHEN discount = 0 THEN profit * 100.0 / NULLIF(sales_amount, 0) END), 0)",
	).From("orders").Where(sq.Gt{"sales_amount": 0}).ToSql()
	if err != nil {
		return margins, fmt.Errorf("failed to build discount margins query: %w", err)
	}

	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&margins.HighDiscount, &margins.FullPrice)
	if err != nil {
		return margins, fmt.Errorf("failed to query discount margins: %w", err)
	}
	return margins, nil
}

// MonthlyRevenue returns up to limit months of revenue, most recent first.
func (s *SQLiteStorage) MonthlyRevenue(ctx context.Context, limit int) ([]service.MonthRevenue, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 2
	}

	query, args, err := sq.Select(
		"STRFTIME('%Y-%m', order_date) AS mo",
		"ROUND(SUM(sales_amount), 2)",
	).From("orders").
		GroupBy("mo").
		OrderBy("mo DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly revenue query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var months []service.MonthRevenue
	for rows.Next() {
		var m service.MonthRevenue
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly revenue: %w", err)
	}
	return months, nil
}

// YearlyRevenue returns revenue per calendar year, oldest first.
func (s *SQLiteStorage) YearlyRevenue(ctx context.Context) ([]service.YearRevenue, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := sq.Select(
		"STRFTIME('%Y', order_date) AS yr",
		"ROUND(SUM(sales_amount), 2)",
	).From("orders").
		GroupBy("yr").
		OrderBy("yr").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build yearly revenue query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query yearly revenue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var years []service.YearRevenue
	for rows.Next() {
		var y service.YearRevenue
		if err := rows.Scan(&y.Year, &y.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan yearly revenue: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate yearly revenue: %w", err)
	}
	return years, nil
}

// HighIncomeAvgOrder reports the average order value of customers above the
// income threshold, or nil when none qualify.
func (s *SQLiteStorage) HighIncomeAvgOrder(ctx context.Context, incomeThreshold float64) (*float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := sq.Select("ROUND(AVG(sales_amount), 2)").
		From("orders").
		Where(sq.Gt{"annual_income": incomeThreshold}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build high-income query: %w", err)
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to query high-income average: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
