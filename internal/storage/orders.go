package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/salescope/salescope/internal/common"
	"github.com/salescope/salescope/internal/model"
)

const orderColumns = `order_id, order_date, customer_id, customer_name, region, product, category,
	quantity, unit_price, cost_price, discount, sales_amount, profit,
	payment_method, age, gender, annual_income`

const insertOrderSQL = `INSERT INTO orders (` + orderColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertOrIgnoreOrderSQL = `INSERT OR IGNORE INTO orders (` + orderColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func orderArgs(order *model.Order) []any {
	return []any{
		order.OrderID,
		order.OrderDate.String(),
		order.CustomerID,
		order.CustomerName,
		order.Region,
		order.Product,
		order.Category,
		order.Quantity,
		order.UnitPrice,
		order.CostPrice,
		order.Discount,
		order.SalesAmount,
		order.Profit,
		order.PaymentMethod,
		order.Age,
		order.Gender,
		order.AnnualIncome,
	}
}

// InsertOrder persists a single order. A colliding order id surfaces as
// common.ErrDuplicateOrder.
func (s *SQLiteStorage) InsertOrder(ctx context.Context, order *model.Order) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOrder(order); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, insertOrderSQL, orderArgs(order)...)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", common.ErrDuplicateOrder, order.OrderID)
		}
		return fmt.Errorf("failed to insert order %s: %w", order.OrderID, err)
	}

	if id, idErr := res.LastInsertId(); idErr == nil {
		order.ID = id
	}
	return nil
}

// InsertOrders persists a batch with insert-or-ignore semantics: rows whose
// order id already exists are silently skipped. Returns the number of rows
// actually inserted.
func (s *SQLiteStorage) InsertOrders(ctx context.Context, orders []model.Order) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateOrders(orders); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertOrIgnoreOrderSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for i := range orders {
		res, execErr := stmt.ExecContext(ctx, orderArgs(&orders[i])...)
		if execErr != nil {
			return inserted, fmt.Errorf("failed to insert order %s: %w", orders[i].OrderID, execErr)
		}
		if n, affErr := res.RowsAffected(); affErr == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return inserted, nil
}

// CountOrders returns the total number of stored orders.
func (s *SQLiteStorage) CountOrders(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// OrderIDExists reports whether an order with the given business id exists.
func (s *SQLiteStorage) OrderIDExists(ctx context.Context, orderID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(orderID, "orderID"); err != nil {
		return false, err
	}

	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM orders WHERE order_id = ?", orderID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check order id %s: %w", orderID, err)
	}
	return true, nil
}

// ListRecentOrders returns the most recently inserted orders, newest first.
func (s *SQLiteStorage) ListRecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, `+orderColumns+`, created_at
		FROM orders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []model.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// DeleteOrder removes one order by database row id.
func (s *SQLiteStorage) DeleteOrder(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	if n, affErr := res.RowsAffected(); affErr == nil && n == 0 {
		return fmt.Errorf("%w: order %d", common.ErrNotFound, id)
	}
	return nil
}

// ClearOrders removes every stored order.
func (s *SQLiteStorage) ClearOrders(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM orders"); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	return nil
}

func scanOrder(rows *sql.Rows) (*model.Order, error) {
	var (
		order     model.Order
		orderDay  time.Time
		createdAt sql.NullTime
	)
	err := rows.Scan(
		&order.ID,
		&order.OrderID,
		&orderDay,
		&order.CustomerID,
		&order.CustomerName,
		&order.Region,
		&order.Product,
		&order.Category,
		&order.Quantity,
		&order.UnitPrice,
		&order.CostPrice,
		&order.Discount,
		&order.SalesAmount,
		&order.Profit,
		&order.PaymentMethod,
		&order.Age,
		&order.Gender,
		&order.AnnualIncome,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.OrderDate = model.NewDate(orderDay)
	if createdAt.Valid {
		order.CreatedAt = createdAt.Time
	}
	return &order, nil
}
