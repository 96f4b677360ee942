package pipeline

import (
	"fmt"
	"strings"

	"github.com/salescope/salescope/internal/common"
	"github.com/salescope/salescope/internal/model"
)

// validRegions is the canonical region whitelist.
var validRegions = []string{"North", "South", "East", "West"}

// Default values applied when a coerced number fails validation.
const (
	defaultUnitPrice = 100.0
	defaultCostPrice = 60.0
	costPriceRatio   = 0.7
	maxDiscount      = 0.9
)

// NormalizeRegion checks the cleaned region against the whitelist. A
// non-standard value is rescued by case-insensitive substring match against
// the canonical names; otherwise it is kept as-is with a warning.
func NormalizeRegion(region string) (string, []string) {
	for _, v := range validRegions {
		if region == v {
			return region, nil
		}
	}
	lower := strings.ToLower(region)
	for _, v := range validRegions {
		if strings.Contains(lower, strings.ToLower(v)) {
			return v, nil
		}
	}
	return region, []string{fmt.Sprintf("Region '%s' is non-standard", region)}
}

// ValidateQuantity floors the coerced quantity to a positive integer.
func ValidateQuantity(qty float64) int {
	if qty > 0 {
		return int(qty)
	}
	return 1
}

// ValidateUnitPrice enforces a positive unit price.
func ValidateUnitPrice(price float64) float64 {
	if price > 0 {
		return price
	}
	return defaultUnitPrice
}

// InferCostPrice resolves the cost price. A missing cost is inferred as 70% of
// the unit price; this is expected behavior, not a correction, so no warning is
// emitted. A present but non-positive cost falls back to the default.
func InferCostPrice(raw any, unitPrice float64) float64 {
	if RawString(raw) == "" {
		return round2(unitPrice * costPriceRatio)
	}
	cost := Float(raw, defaultCostPrice)
	if cost > 0 {
		return cost
	}
	return defaultCostPrice
}

// CheckEssentials guards against rows that cleaning could not make storable.
// Both the single-submission and bulk paths run it before insert.
func CheckEssentials(order *model.Order) error {
	if order.Region == "" || order.Product == "" || order.OrderDate.IsZero() {
		return fmt.Errorf("%w: Region=%q, Product=%q, Date=%q",
			common.ErrRowIncomplete, order.Region, order.Product, order.OrderDate.String())
	}
	return nil
}

// NormalizeDiscount converts a raw discount to a fraction in [0, 0.9].
// Values above 1 are read as percentages ("15" means 15%).
func NormalizeDiscount(disc float64) float64 {
	if disc > 1 {
		disc /= 100
	}
	if disc < 0 {
		return 0
	}
	if disc > maxDiscount {
		return maxDiscount
	}
	return disc
}
