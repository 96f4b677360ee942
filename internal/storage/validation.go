// Package storage provides the data persistence layer for the salescope application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/salescope/salescope/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrInvalidOrder = errors.New("invalid order")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateOrders validates a slice of orders.
func validateOrders(orders []model.Order) error {
	if orders == nil {
		return fmt.Errorf("%w: orders", ErrNilParameter)
	}
	if len(orders) == 0 {
		return fmt.Errorf("%w: orders", ErrEmptySlice)
	}

	for i, order := range orders {
		if err := validateOrder(&order); err != nil {
			return fmt.Errorf("order at index %d: %w", i, err)
		}
	}
	return nil
}

// validateOrder validates a single order.
func validateOrder(order *model.Order) error {
	if order == nil {
		return fmt.Errorf("%w: order", ErrNilParameter)
	}
	if order.OrderID == "" {
		return fmt.Errorf("%w: missing order id", ErrInvalidOrder)
	}
	if order.OrderDate.IsZero() {
		return fmt.Errorf("%w: missing order date", ErrInvalidOrder)
	}
	if order.Region == "" {
		return fmt.Errorf("%w: missing region", ErrInvalidOrder)
	}
	if order.Product == "" {
		return fmt.Errorf("%w: missing product", ErrInvalidOrder)
	}
	// Quantity zero is legal: a fractional raw quantity truncates to zero
	// after cleaning.
	if order.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidOrder)
	}
	return nil
}
