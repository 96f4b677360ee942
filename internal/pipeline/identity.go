package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/salescope/salescope/internal/common"
	"github.com/salescope/salescope/internal/service"
)

const customerIDFallback = "CUST"

// ResolveOrderID returns the explicit order id when one was supplied, or
// generates one as ORD- plus a zero-padded sequence number.
//
// Duplicate checking applies only to explicit ids and only when requested;
// bulk import disables it and relies on the store's insert-or-ignore behavior.
// Generated ids are best-effort unique, not transactionally guaranteed against
// concurrent writers.
func ResolveOrderID(ctx context.Context, store service.OrderReader, explicit string, checkDuplicates bool, sequenceHint int) (string, error) {
	if explicit != "" {
		if checkDuplicates {
			exists, err := store.OrderIDExists(ctx, explicit)
			if err != nil {
				return "", fmt.Errorf("failed to check for duplicate order id: %w", err)
			}
			if exists {
				return "", fmt.Errorf("%w: %s", common.ErrDuplicateOrder, explicit)
			}
		}
		return explicit, nil
	}

	num := sequenceHint
	if num <= 0 {
		count, err := store.CountOrders(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to count orders: %w", err)
		}
		num = count + 1
	}
	return fmt.Sprintf("ORD-%06d", num), nil
}

// CustomerID derives a deterministic customer slug from the cleaned customer
// name: uppercase, alphanumeric-only, first six characters, prefixed C-.
// Names that reduce to nothing get a fixed fallback token.
func CustomerID(customerName string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(customerName) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if slug == "" {
		slug = customerIDFallback
	}
	if len(slug) > 6 {
		slug = slug[:6]
	}
	return "C-" + slug
}
