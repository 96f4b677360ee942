package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/salescope/salescope/internal/service"
)

// ageHistogramExpr buckets ages for the demographic chart.
const ageHistogramExpr = `CASE
	WHEN age < 25 THEN '18-24'
	WHEN age < 35 THEN '25-34'
	WHEN age < 45 THEN '35-44'
	WHEN age < 55 THEN '45-54'
	ELSE '55+'
END`

// MonthlySeries returns revenue, profit, and order counts per month, oldest
// first.
func (s *SQLiteStorage) MonthlySeries(ctx context.Context) ([]service.MonthlyPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := sq.Select(
		"STRFTIME('%Y-%m', order_date) AS mo",
		"ROUND(SUM(sales_amount), 2)",
		"ROUND(SUM(profit), 2)",
		"COUNT(DISTINCT order_id)",
	).From("orders").GroupBy("mo").OrderBy("mo").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly series query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []service.MonthlyPoint
	for rows.Next() {
		var p service.MonthlyPoint
		if err := rows.Scan(&p.Month, &p.Revenue, &p.Profit, &p.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan monthly series: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly series: %w", err)
	}
	return points, nil
}

// ProductSeries returns per-product revenue, profit, and unit counts for the
// top products by revenue.
func (s *SQLiteStorage) ProductSeries(ctx context.Context, limit int) ([]service.ProductPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := sq.Select(
		"product",
		"ROUND(SUM(sales_amount), 2) AS revenue",
		"ROUND(SUM(profit), 2)",
		"SUM(quantity)",
	).From("orders").
		GroupBy("product").
		OrderBy("revenue DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build product series query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query product series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []service.ProductPoint
	for rows.Next() {
		var p service.ProductPoint
		if err := rows.Scan(&p.Product, &p.Revenue, &p.Profit, &p.Units); err != nil {
			return nil, fmt.Errorf("failed to scan product series: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product series: %w", err)
	}
	return points, nil
}

// RegionSeries returns per-region revenue, profit, customer counts, and margin.
func (s *SQLiteStorage) RegionSeries(ctx context.Context) ([]service.RegionPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := sq.Select(
		"region",
		"ROUND(SUM(sales_amount), 2) AS revenue",
		"ROUND(SUM(profit), 2)",
		"COUNT(DISTINCT customer_id)",
		"COALESCE(ROUND(SUM(profit) * 100.0 / NULLIF(SUM(sales_amount), 0), 1), 0)",
	).From("orders").
		GroupBy("region").
		OrderBy("revenue DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build region series query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query region series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []service.RegionPoint
	for rows.Next() {
		var p service.RegionPoint
		if err := rows.Scan(&p.Region, &p.Revenue, &p.Profit, &p.Customers, &p.Margin); err != nil {
			return nil, fmt.Errorf("failed to scan region series: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate region series: %w", err)
	}
	return points, nil
}

// CategorySeries returns per-category revenue and profit, highest revenue first.
func (s *SQLiteStorage) CategorySeries(ctx context.Context) ([]service.CategoryPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := sq.Select(
		"category",
		"ROUND(SUM(sales_amount), 2) AS revenue",
		"ROUND(SUM(profit), 2)",
	).From("orders").
		GroupBy("category").
		OrderBy("revenue DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category series query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []service.CategoryPoint
	for rows.Next() {
		var p service.CategoryPoint
		if err := rows.Scan(&p.Category, &p.Revenue, &p.Profit); err != nil {
			return nil, fmt.Errorf("failed to scan category series: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category series: %w", err)
	}
	return points, nil
}

// TopProducts returns the top products by revenue as name/value pairs.
func (s *SQLiteStorage) TopProducts(ctx context.Context, limit int) ([]service.GroupStat, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	query, args, err := sq.Select(
		"product",
		"ROUND(SUM(sales_amount), 2) AS revenue",
	).From("orders").
		GroupBy("product").
		OrderBy("revenue DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top products query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []service.GroupStat
	for rows.Next() {
		var stat service.GroupStat
		if err := rows.Scan(&stat.Name, &stat.Value); err != nil {
			return nil, fmt.Errorf("failed to scan top products: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate top products: %w", err)
	}
	return stats, nil
}

// PaymentSeries returns total revenue per payment method, highest first.
func (s *SQLiteStorage) PaymentSeries(ctx context.Context) ([]service.PaymentPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := sq.Select(
		"payment_method",
		"ROUND(SUM(sales_amount), 2) AS revenue",
	).From("orders").
		GroupBy("payment_method").
		OrderBy("revenue DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build payment series query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []service.PaymentPoint
	for rows.Next() {
		var p service.PaymentPoint
		if err := rows.Scan(&p.Method, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan payment series: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment series: %w", err)
	}
	return points, nil
}

// AgeHistogram returns order counts and revenue per age bracket.
func (s *SQLiteStorage) AgeHistogram(ctx context.Context) ([]service.AgePoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := sq.Select(
		ageHistogramExpr+" AS age_bucket",
		"COUNT(*)",
		"ROUND(SUM(sales_amount), 2)",
	).From("orders").
		GroupBy("age_bucket").
		OrderBy("age_bucket").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build age histogram query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query age histogram: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []service.AgePoint
	for rows.Next() {
		var p service.AgePoint
		if err := rows.Scan(&p.Bucket, &p.Count, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan age histogram: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate age histogram: %w", err)
	}
	return points, nil
}
